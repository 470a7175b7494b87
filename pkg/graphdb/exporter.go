package graphdb

import (
	"context"

	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	Exporter struct {
		l        *zap.Logger
		driver   neo4j.DriverWithContext
		database string
	}
	ExporterOption func(*Exporter)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithDatabase neo4j database, the server default when empty
func WithDatabase(v string) ExporterOption {
	return func(o *Exporter) {
		o.database = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewExporter(ctx context.Context, l *zap.Logger, uri, username, password string, opts ...ExporterOption) (*Exporter, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.Wrap(err, "failed to verify neo4j connectivity")
	}

	inst := &Exporter{
		l:      l.Named("graphdb"),
		driver: driver,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Export replaces the stored graph of flowID in a single transaction
func (e *Exporter) Export(ctx context.Context, flowID string, g *infograph.InfoGraph) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: e.database})
	defer session.Close(ctx)

	statements := Statements(flowID, g)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, s := range statements {
			if _, err := tx.Run(ctx, s.Query, s.Params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to export flow %q", flowID)
	}
	e.l.Info("exported flow",
		zap.String("flow", flowID),
		zap.Int("nodes", g.NodeNames.Len()),
		zap.Int("edges", g.Edges.Len()),
	)
	return nil
}

func (e *Exporter) Close(ctx context.Context) error {
	if e == nil || e.driver == nil {
		return nil
	}
	return e.driver.Close(ctx)
}
