package migrate

import (
	"context"

	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/repo/model"
)

func Table(ctx context.Context, ds *db.Datastore) error {
	d := ds.DBWithContext(ctx)
	models := []any{
		&model.Sample{},
	}
	for _, m := range models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}
