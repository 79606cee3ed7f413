package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/juju/errors"

	"restaurant-ordering/internal/domain"
	sales "restaurant-ordering/internal/microservices/sales/service"
)

var bestsellerHeader = []string{"rank", "id", "name", "category", "quantity"}

func WriteSalesJSON(w io.Writer, s sales.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Trace(enc.Encode(s))
}

func WriteBestsellerCSV(w io.Writer, data domain.BestsellerData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bestsellerHeader); err != nil {
		return errors.Trace(err)
	}
	for i, e := range data.Items {
		row := []string{strconv.Itoa(i + 1), e.ID, e.Name, e.Category, strconv.Itoa(e.Quantity)}
		if err := cw.Write(row); err != nil {
			return errors.Trace(err)
		}
	}
	cw.Flush()
	return errors.Trace(cw.Error())
}

// Write renders a report through f. The destination is only written when
// render succeeds.
func Write(ctx context.Context, f WriterFactory, path string, render func(io.Writer) error) error {
	w, err := f.NewWriter(ctx, path)
	if err != nil {
		return err
	}
	if err := render(w); err != nil {
		return err
	}
	return w.Close()
}
