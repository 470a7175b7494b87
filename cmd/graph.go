package cmd

import (
	"io"
	"os"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/flowdoc"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrUnknownFormat = errors.New("unknown format")

func NewGraphCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Render the info graph of a flow document, - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return renderGraph(cmd.OutOrStdout(), v, data)
		},
	}

	flags := cmd.Flags()
	addGraphFormatFlag(flags, v)
	addGraphFlowFlag(flags, v)
	addGraphDirectionFlag(flags, v)

	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func renderGraph(w io.Writer, v *viper.Viper, data []byte) error {
	doc, err := flowdoc.Decode(data)
	if err != nil {
		return err
	}

	flowID := graphFlowFlag(v)
	if flowID == "" {
		ids := doc.FlowIDs()
		if len(ids) == 0 {
			return errors.New("document contains no flows")
		}
		flowID = ids[0].String()
	}
	ii, ok := doc.Get(item.ID(flowID))
	if !ok {
		return errors.Errorf("flow %q not found", flowID)
	}

	graph := infograph.Calculate(locations.New(ii))
	switch dir := infograph.GraphDir(graphDirectionFlag(v)); dir {
	case infograph.GraphDirVertical, infograph.GraphDirHorizontal:
		graph.Direction = dir
	default:
		return errors.Errorf("unknown direction %q", dir)
	}

	var out []byte
	switch format := graphFormatFlag(v); format {
	case "dot":
		return graph.WriteDOT(w)
	case "json":
		out, err = graph.JSON()
	case "yaml":
		out, err = graph.YAML()
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
