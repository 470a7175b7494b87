package cmd

import (
	"context"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/flowdoc"
	"github.com/foomo/itemmodel/pkg/graphdb"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewExportCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the info graphs of a flow document into neo4j, - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("export")
			ctx := cmd.Context()

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := flowdoc.Decode(data)
			if err != nil {
				return err
			}
			flowIDs, err := exportFlowIDs(doc, exportFlowFlag(v))
			if err != nil {
				return err
			}

			var opts []graphdb.ExporterOption
			if db := neo4jDatabaseFlag(v); db != "" {
				opts = append(opts, graphdb.WithDatabase(db))
			}
			e, err := graphdb.NewExporter(ctx, l, neo4jURIFlag(v), neo4jUsernameFlag(v), neo4jPasswordFlag(v), opts...)
			if err != nil {
				return err
			}
			defer func() {
				if err := e.Close(context.WithoutCancel(ctx)); err != nil {
					l.Warn("failed to close neo4j driver", zap.Error(err))
				}
			}()

			for _, flowID := range flowIDs {
				ii, _ := doc.Get(flowID)
				if err := e.Export(ctx, flowID.String(), infograph.Calculate(locations.New(ii))); err != nil {
					return errors.Wrapf(err, "failed to export flow %q", flowID)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addExportFlowFlag(flags, v)
	addNeo4jURIFlag(flags, v)
	addNeo4jUsernameFlag(flags, v)
	addNeo4jPasswordFlag(flags, v)
	addNeo4jDatabaseFlag(flags, v)

	return cmd
}

func exportFlowIDs(doc *flowdoc.Document, flowID string) ([]item.ID, error) {
	if flowID == "" {
		return doc.FlowIDs(), nil
	}
	if _, ok := doc.Get(item.ID(flowID)); !ok {
		return nil, errors.Errorf("flow %q not found", flowID)
	}
	return []item.ID{item.ID(flowID)}, nil
}
