package translation_engine

import (
	"context"
	"io"

	"github.com/markdave123-py/doctranslate/internal/models"
)

// Runner executes one translation job end to end.
type Runner interface {
	Run(ctx context.Context, req Request) (*models.OutputDocument, error)
	OpenOutput(ctx context.Context, jobID, filename string) (io.ReadCloser, error)
}
