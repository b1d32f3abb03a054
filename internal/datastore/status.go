package datastore

import (
	"fmt"
	"io"
	"sort"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Users: %d\n", status.Users)
	_, _ = fmt.Fprintf(w, "Daily Aggregates: %d\n", status.TotalDays)
	if status.TotalDays > 0 {
		_, _ = fmt.Fprintf(w, "Oldest Day: %s\n", status.OldestDay.Format(contract.DateFormat))
		_, _ = fmt.Fprintf(w, "Latest Day: %s\n", status.LatestDay.Format(contract.DateFormat))
	}
	_, _ = fmt.Fprintf(w, "Current Archetypes: %d\n", status.CurrentRecords)

	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
