package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/notify"
)

// clearMarker typed at an edit prompt clears an optional field.
const clearMarker = "-"

func (a *App) idArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, "Vessel ID", a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("vessel ID is required")
	}
	return id, nil
}

func (a *App) List(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.api.ListVessels(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No vessels")
		return nil
	}
	return renderTable(a.out, list)
}

func (a *App) Show(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	v, err := a.api.GetVessel(ctx, id)
	if err != nil {
		return err
	}
	renderVessel(a.out, v)
	return nil
}

// Add walks through the vessel form and creates the record.
func (a *App) Add(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var in models.VesselInput
	text := []struct {
		prompt string
		dst    *string
	}{
		{"Vessel name", &in.Name},
		{"ETA (YYYY-MM-DDTHH:MM, UTC)", &in.ETA},
		{"ETB (optional)", &in.ETB},
		{"ETD (optional)", &in.ETD},
		{"Berth (optional)", &in.Berth},
		{"IMO (optional)", &in.IMO},
		{"Cargo (optional)", &in.Cargo},
	}
	for _, f := range text {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	qty, err := getSimpleText(a.reader, "Fresh water quantity, m³ (optional)", a.out)
	if err != nil {
		return err
	}
	if qty != "" {
		f, err := strconv.ParseFloat(qty, 64)
		if err != nil {
			return fmt.Errorf("fresh water quantity: %w", err)
		}
		in.FreshWaterQuantity = &f
	}

	flags := []struct {
		prompt string
		dst    *bool
	}{
		{"Fresh water?", &in.Services.FreshWater},
		{"Provisions?", &in.Services.Provisions},
		{"Waste disposal?", &in.Services.WasteDisposal},
		{"Pilotage?", &in.Requests.Pilotage},
		{"Towage?", &in.Requests.Towage},
		{"Linesmen?", &in.Requests.Linesmen},
	}
	for _, f := range flags {
		v, err := GetYesNo(a.reader, f.prompt, false, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	v, err := a.api.CreateVessel(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Vessel %s created (%s)\n", v.Name, v.ID)
	return nil
}

// Edit shows each field with its current value. Enter keeps it, "-" clears
// an optional field.
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	v, err := a.api.GetVessel(ctx, id)
	if err != nil {
		return err
	}

	var patch models.VesselPatch
	text := []struct {
		prompt   string
		current  string
		optional bool
		dst      *models.Field[string]
	}{
		{"Vessel name", v.Name, false, &patch.Name},
		{"ETA", v.ETA.Format(time.RFC3339), false, &patch.ETA},
		{"ETB", formatRFC(v.ETB), true, &patch.ETB},
		{"ETD", formatRFC(v.ETD), true, &patch.ETD},
		{"Berth", v.Berth, true, &patch.Berth},
		{"IMO", v.IMO, true, &patch.IMO},
		{"Cargo", v.Cargo, true, &patch.Cargo},
	}
	for _, f := range text {
		in, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.prompt, f.current), a.out)
		if err != nil {
			return err
		}
		switch {
		case in == "":
		case in == clearMarker && f.optional:
			*f.dst = models.Null[string]()
		default:
			*f.dst = models.Some(in)
		}
	}

	current := ""
	if v.FreshWaterQuantity != nil {
		current = strconv.FormatFloat(*v.FreshWaterQuantity, 'f', -1, 64)
	}
	qty, err := getSimpleText(a.reader, fmt.Sprintf("Fresh water quantity, m³ [%s]", current), a.out)
	if err != nil {
		return err
	}
	switch qty {
	case "":
	case clearMarker:
		patch.FreshWaterQuantity = models.Null[float64]()
	default:
		f, err := strconv.ParseFloat(qty, 64)
		if err != nil {
			return fmt.Errorf("fresh water quantity: %w", err)
		}
		patch.FreshWaterQuantity = models.Some(f)
	}

	var sp models.ServicesPatch
	var rp models.RequestsPatch
	flags := []struct {
		prompt  string
		current bool
		dst     **bool
	}{
		{"Fresh water?", v.Services.FreshWater, &sp.FreshWater},
		{"Provisions?", v.Services.Provisions, &sp.Provisions},
		{"Waste disposal?", v.Services.WasteDisposal, &sp.WasteDisposal},
		{"Pilotage?", v.Requests.Pilotage, &rp.Pilotage},
		{"Towage?", v.Requests.Towage, &rp.Towage},
		{"Linesmen?", v.Requests.Linesmen, &rp.Linesmen},
	}
	for _, f := range flags {
		b, err := GetYesNo(a.reader, f.prompt, f.current, a.out)
		if err != nil {
			return err
		}
		if b != f.current {
			*f.dst = &b
		}
	}
	if sp != (models.ServicesPatch{}) {
		patch.Services = &sp
	}
	if rp != (models.RequestsPatch{}) {
		patch.Requests = &rp
	}

	if patch.Empty() {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}

	updated, err := a.api.UpdateVessel(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Vessel %s updated\n", updated.Name)
	return nil
}

// Status moves a vessel to another lifecycle state: "status <id> [status]".
func (a *App) Status(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	status := ""
	if len(args) > 1 {
		status = args[1]
	} else {
		status, err = getSimpleText(a.reader, "Status (pending, in-progress, completed)", a.out)
		if err != nil {
			return err
		}
	}

	v, err := a.api.UpdateVessel(ctx, id, models.VesselPatch{Status: models.Some(status)})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Vessel %s is now %s\n", v.Name, v.Status)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete vessel %s?", id), false, a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.api.DeleteVessel(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Vessel deleted successfully")
	return nil
}

func renderTable(w io.Writer, list []*models.Vessel) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tETA\tETB\tETD\tBERTH\tSTATUS\tSERVICES")
	for _, v := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, v.ETA.Format(notify.TimeLayout), formatOptional(v.ETB), formatOptional(v.ETD),
			dash(v.Berth), v.Status, dash(strings.Join(serviceList(v), ",")))
	}
	return tw.Flush()
}

func renderVessel(w io.Writer, v *models.Vessel) {
	fmt.Fprintf(w, "%s (%s)\n", v.Name, v.ID)
	fmt.Fprintf(w, "  Status:  %s\n", v.Status)
	fmt.Fprintf(w, "  ETA:     %s\n", v.ETA.Format(notify.TimeLayout))
	fmt.Fprintf(w, "  ETB:     %s\n", formatOptional(v.ETB))
	fmt.Fprintf(w, "  ETD:     %s\n", formatOptional(v.ETD))
	fmt.Fprintf(w, "  Berth:   %s\n", dash(v.Berth))
	fmt.Fprintf(w, "  IMO:     %s\n", dash(v.IMO))
	fmt.Fprintf(w, "  Cargo:   %s\n", dash(v.Cargo))
	if v.FreshWaterQuantity != nil {
		fmt.Fprintf(w, "  Water:   %s m³\n", strconv.FormatFloat(*v.FreshWaterQuantity, 'f', -1, 64))
	}
	fmt.Fprintf(w, "  Orders:  %s\n", dash(strings.Join(serviceList(v), ", ")))
	fmt.Fprintf(w, "  Updated: %s\n", v.UpdatedAt.Format(notify.TimeLayout))
}

func serviceList(v *models.Vessel) []string {
	var out []string
	for _, s := range []struct {
		on   bool
		name string
	}{
		{v.Services.FreshWater, "fresh water"},
		{v.Services.Provisions, "provisions"},
		{v.Services.WasteDisposal, "waste"},
		{v.Requests.Pilotage, "pilotage"},
		{v.Requests.Towage, "towage"},
		{v.Requests.Linesmen, "linesmen"},
	} {
		if s.on {
			out = append(out, s.name)
		}
	}
	return out
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(notify.TimeLayout)
}

func formatRFC(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
