package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// headerOut receives analysis headers. Tests swap it for a buffer.
var headerOut io.Writer = os.Stderr

// logAnalysisHeader prints which user and date range an analysis covers.
// A zero from means the whole stored history.
func logAnalysisHeader(ctx context.Context, cfg *contract.Config, metric string, from time.Time) {
	if shouldSuppressHeader(ctx) || cfg.Output != "" && cfg.Output != schema.TextOut {
		return
	}
	_, _ = fmt.Fprintf(headerOut, "🔎 User: %s (Metric: %s)\n", cfg.User, metric)
	if from.IsZero() {
		_, _ = fmt.Fprintf(headerOut, "📅 Range: all history → %s\n", cfg.Today.Format(contract.DateFormat))
		return
	}
	_, _ = fmt.Fprintf(headerOut, "📅 Range: %s → %s\n", from.Format(contract.DateFormat), cfg.Today.Format(contract.DateFormat))
}
