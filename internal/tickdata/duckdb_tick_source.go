package tickdata

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/argus-quant/hftsim/internal/logger"
	"github.com/argus-quant/hftsim/internal/types"
	"github.com/argus-quant/hftsim/pkg/errors"
)

// DuckDBTickSource streams ticks from a CSV or Parquet file through an
// in-memory DuckDB instance. Tick files carry four columns: timestamp in
// nanoseconds, price, volume, and side encoded as +1 (buy) or -1 (sell).
type DuckDBTickSource struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDuckDBTickSource opens an in-memory DuckDB instance for tick streaming.
func NewDuckDBTickSource(l *logger.Logger) (*DuckDBTickSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBTickSource{
		db:     db,
		logger: l,
	}, nil
}

// Initialize implements TickSource. The reader is picked by file extension:
// .parquet goes through read_parquet, anything else through read_csv_auto.
func (d *DuckDBTickSource) Initialize(path string) error {
	d.logger.Debug("initializing tick source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS ticks;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	reader := "read_csv_auto"
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		reader = "read_parquet"
	}

	// CREATE VIEW has no placeholder support; the path is interpolated.
	query := fmt.Sprintf(`
		CREATE VIEW ticks AS
		SELECT timestamp, price, volume, side FROM %s('%s');
	`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read tick data from %s", path)
	}

	return nil
}

// Count implements TickSource.
func (d *DuckDBTickSource) Count() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM ticks`).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count ticks", err)
	}

	return count, nil
}

// ReadAll implements TickSource with batched row processing.
func (d *DuckDBTickSource) ReadAll() func(yield func(types.Tick, error) bool) {
	const batchSize = 10000

	return func(yield func(types.Tick, error) bool) {
		rows, err := d.db.Query(`SELECT timestamp, price, volume, side FROM ticks`)
		if err != nil {
			yield(types.Tick{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query ticks", err))

			return
		}
		defer rows.Close()

		batch := make([]types.Tick, 0, batchSize)

		for rows.Next() {
			var (
				timestamp     int64
				price, volume float64
				sideNum       int64
			)

			if err := rows.Scan(&timestamp, &price, &volume, &sideNum); err != nil {
				yield(types.Tick{}, errors.Wrap(errors.ErrCodeInvalidTick, "failed to scan tick row", err))

				return
			}

			batch = append(batch, types.Tick{
				Timestamp: timestamp,
				Price:     price,
				Volume:    volume,
				Side:      types.SideFromNumeric(sideNum),
			})

			if len(batch) >= batchSize {
				for _, tick := range batch {
					if !yield(tick, nil) {
						return
					}
				}

				batch = batch[:0]
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Tick{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating tick rows", err))

			return
		}

		for _, tick := range batch {
			if !yield(tick, nil) {
				return
			}
		}
	}
}

// Close implements TickSource.
func (d *DuckDBTickSource) Close() error {
	return d.db.Close()
}
