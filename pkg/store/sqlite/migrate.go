package sqlite

import (
	"github.com/cverdb/cverdb/internal/log"
	"github.com/cverdb/cverdb/pkg/cvedb"
)

// columns added to the record table after the original schema shipped. Databases
// provisioned by this code already have them; files created by older builds may not.
var ensuredColumns = []string{"identifier", "last_modified", "status"}

// EnsureColumns adds any missing optional record columns. The migration is additive and
// best-effort per column: one failed ALTER (e.g. a concurrent caller racing on
// existence) is reported in its outcome and never blocks the remaining columns or the
// caller.
func (s *Store) EnsureColumns() []cvedb.ColumnOutcome {
	migrator := s.db.Migrator()

	outcomes := make([]cvedb.ColumnOutcome, 0, len(ensuredColumns))
	for _, column := range ensuredColumns {
		if migrator.HasColumn(&cveModel{}, column) {
			outcomes = append(outcomes, cvedb.ColumnOutcome{
				Column: column,
				Status: cvedb.ColumnPresent,
			})
			continue
		}

		if err := migrator.AddColumn(&cveModel{}, column); err != nil {
			log.WithFields("column", column, "error", err).Warn("unable to add column")
			outcomes = append(outcomes, cvedb.ColumnOutcome{
				Column: column,
				Status: cvedb.ColumnFailed,
				Err:    err,
			})
			continue
		}

		outcomes = append(outcomes, cvedb.ColumnOutcome{
			Column: column,
			Status: cvedb.ColumnAdded,
		})
	}

	return outcomes
}
