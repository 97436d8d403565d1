package components

import (
	"restore-scheduler/internal/infra/db"
	"restore-scheduler/internal/infra/readstore"
	repo_impl "restore-scheduler/internal/infra/repository"
	"restore-scheduler/internal/usecase/commands"
	"restore-scheduler/internal/usecase/queries"
	"restore-scheduler/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		NewTxPool,
		fx.Annotate(
			repo_impl.NewRegistrationRepository,
			fx.As(new(commands.RegistrationRepository)),
		),
		// Read-side store doubles as the occupancy oracle for the
		// availability finder.
		fx.Annotate(
			readstore.NewRegistrationReadStore,
			fx.As(new(queries.RegistrationViewRepo)),
			fx.As(new(queries.OccupancyRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewTxPool(pool *pgxpool.Pool) shared.Pool {
	return pool
}
