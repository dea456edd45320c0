package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/schema"
	"github.com/olekukonko/tablewriter"
)

// classificationRole names the role a time dimension plays in the summary.
func classificationRole(d schema.ClassifiedDimension, cls schema.Classification) string {
	switch d.Descriptor.Name {
	case cls.Fine.Descriptor.Name:
		return "series"
	case cls.Coarse.Descriptor.Name:
		return "comparison"
	default:
		return ""
	}
}

// printClassificationText prints every time-like dimension, finest first.
func (ow *OutWriter) printClassificationText(cls schema.Classification, cfg *contract.Config) error {
	table := tablewriter.NewWriter(ow.Stdout)
	table.Header([]string{"Dimension", "Type", "Granularity", "Rank", "Role"})

	var data [][]string
	for _, d := range cls.TimeLikes {
		role := classificationRole(d, cls)
		if role != "" && cfg.UseColors {
			role = contract.NeutralColor.Sprint(role)
		}
		data = append(data, []string{
			contract.TruncateLabel(d.Descriptor.Name, GetMaxLabelWidth(cfg)),
			d.Descriptor.Type,
			d.Granularity.String(),
			strconv.Itoa(int(d.Granularity)),
			role,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.Stdout, "Series on %s, compared by %s\n", cls.Fine.Descriptor.Name, cls.Coarse.Descriptor.Name)
	return nil
}

// writeCSVClassification writes one row per time-like dimension.
func writeCSVClassification(w io.Writer, cls schema.Classification) error {
	header := []string{"dimension", "type", "granularity", "rank", "role"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range cls.TimeLikes {
			row := []string{
				d.Descriptor.Name,
				d.Descriptor.Type,
				d.Granularity.String(),
				strconv.Itoa(int(d.Granularity)),
				classificationRole(d, cls),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
