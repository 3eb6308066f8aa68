package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/notify"
)

// kindArg takes the notification type from args (keys or multi-word labels)
// or asks for it, offering the template table by number.
func (a *App) kindArg(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	kinds := notify.Kinds()
	for i, k := range kinds {
		fmt.Fprintf(a.out, "  %d) %-18s %s\n", i+1, k.Key, k.Label)
	}
	in, err := getSimpleText(a.reader, "Notification type (number, key or label)", a.out)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(kinds) {
		return kinds[n-1].Key, nil
	}
	return in, nil
}

// Notify asks the server to e-mail the configured recipient of a service
// type: "notify <id> [type]".
func (a *App) Notify(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	kind, err := a.kindArg(rest)
	if err != nil {
		return err
	}

	res, err := a.api.SendServiceNotification(ctx, models.ServiceNotificationRequest{VesselID: id, ServiceType: kind})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", res.Message, res.EmailID)
	return nil
}

// NotifyCustom sends a notification with a hand-picked recipient and
// optional replacement wording.
func (a *App) NotifyCustom(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	req := models.CustomNotificationRequest{VesselID: id}
	if req.EmailType, err = a.kindArg(nil); err != nil {
		return err
	}

	prompts := []struct {
		prompt string
		dst    *string
	}{
		{"Recipient address", &req.ToAddress},
		{"Cc address (optional)", &req.CcAddress},
		{"Greeting (optional)", &req.Greeting},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.prompt, a.out); err != nil {
			return err
		}
	}
	if req.ServiceText, err = GetMultiline(a.reader, "Opening paragraph (optional)", a.out); err != nil {
		return err
	}
	if req.RequestText, err = GetMultiline(a.reader, "Request paragraph (optional)", a.out); err != nil {
		return err
	}

	res, err := a.api.SendCustomNotification(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", res.Message, res.EmailID)
	return nil
}

// Draft composes the e-mail locally and prints it with a mailto: link,
// for agents who send from their own mail client.
func (a *App) Draft(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	kind, err := a.kindArg(rest)
	if err != nil {
		return err
	}

	v, err := a.api.GetVessel(ctx, id)
	if err != nil {
		return err
	}

	msg, err := a.composer.Compose(v, kind, notify.Overrides{})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "To: %s\n", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		fmt.Fprintf(a.out, "Cc: %s\n", strings.Join(msg.Cc, ", "))
	}
	fmt.Fprintf(a.out, "Subject: %s\n\n%s\n\n", msg.Subject, msg.Body)
	fmt.Fprintln(a.out, notify.MailtoURL(msg))
	return nil
}
