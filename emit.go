package statica

import (
	"os"
	"path/filepath"

	"github.com/aymerick/raymond"
	"go.uber.org/zap"
)

// Emitter renders pages and persists them under one pass output root. Render
// failures are accumulated in the pass error log instead of raised, so a
// broken template degrades its own pages and nothing else.
type Emitter struct {
	outputDir string
	errs      *ErrorLog
	log       *zap.Logger
	written   int
}

func newEmitter(outputDir string, errs *ErrorLog, log *zap.Logger) *Emitter {
	return &Emitter{outputDir: outputDir, errs: errs, log: log}
}

// Emit renders tpl with page as the template locals and site as the shared
// data frame, then writes relPath (slash-separated) under the output root,
// creating intermediate directories for pagination sub-paths. On a render
// failure the error is recorded tagged with the template identity, no file
// is written, and false is returned; sibling pages proceed.
func (em *Emitter) Emit(tpl *raymond.Template, name string, page map[string]interface{}, site *raymond.DataFrame, relPath string) bool {
	out, err := tpl.ExecWith(page, site)
	if err != nil {
		em.errs.RenderError(name, err)
		em.log.Warn("page render failed",
			zap.String("template", name),
			zap.String("path", relPath),
			zap.Error(err))
		return false
	}
	if err := em.WriteFile(relPath, []byte(out)); err != nil {
		em.errs.Append("write "+relPath, err.Error())
		return false
	}
	return true
}

// WriteFile persists non-template output such as feeds and sitemaps under
// the pass output root.
func (em *Emitter) WriteFile(relPath string, data []byte) error {
	target := filepath.Join(em.outputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return err
	}
	em.written++
	return nil
}

// Written returns the number of files persisted so far.
func (em *Emitter) Written() int { return em.written }
