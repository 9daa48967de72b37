package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"campus-events/config"
	"campus-events/internal/app"
	"campus-events/internal/model"
	"campus-events/internal/session"
	"campus-events/pkg/logger"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// env 單一指令執行期間的本機組裝與 session
type env struct {
	app  *app.App
	ctrl *session.Controller
	user *model.User
	out  io.Writer
}

// withSession 開啟本機儲存、以固定使用者登入並載入活動清單
func withSession(c *cli.Context, fn func(e *env) error) error {
	cfg := config.LoadConfig()
	cfg.App.Profile = config.ProfileLocal
	cfg.Local.Path = c.String("db")

	a, err := app.NewLocal(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := c.Context
	user := a.LocalUser(ctx)
	ctrl := a.NewSession()
	ctrl.SignIn(ctx, user)
	if err := ctrl.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	return fn(&env{app: a, ctrl: ctrl, user: user, out: c.App.Writer})
}

func eventArg(c *cli.Context) (uuid.UUID, error) {
	if c.NArg() != 1 {
		return uuid.Nil, fmt.Errorf("expected exactly one event id")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid event id %q", c.Args().First())
	}
	return id, nil
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List upcoming events matching your interests.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "tag", Usage: "Filter by tag, repeatable. Defaults to your interests."},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Case-insensitive text search."},
			&cli.BoolFlag{Name: "all", Usage: "Ignore the tag filter."},
		},
		Action: func(c *cli.Context) error {
			return withSession(c, func(e *env) error {
				selection := e.ctrl.State().Selection
				if c.IsSet("tag") {
					selection.Tags = c.StringSlice("tag")
				}
				selection.Search = c.String("search")
				selection.All = c.Bool("all")
				e.ctrl.Select(selection)

				view := e.ctrl.View()
				registered := make(map[uuid.UUID]bool, len(view.Registered))
				for _, id := range view.Registered {
					registered[id] = true
				}

				if len(view.Events) == 0 {
					fmt.Fprintln(e.out, "No events match.")
					return nil
				}
				w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATE\tTIME\tTITLE\tVENUE\tTAGS\tCAPACITY\t")
				for _, ev := range view.Events {
					mark := ""
					if registered[ev.ID] {
						mark = " *"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\t%s\t%s\t%s\t\n",
						ev.ID, ev.Date, ev.Time, ev.Title, mark, ev.Venue,
						strings.Join(ev.Tags, ","), capacityLabel(ev))
				}
				return w.Flush()
			})
		},
	}
}

func capacityLabel(ev *model.Event) string {
	if !ev.HasCapacity() {
		return "unlimited"
	}
	return fmt.Sprint(ev.Capacity)
}

func postCommand() *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "Publish a new event.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
			&cli.StringFlag{Name: "time", Required: true, Usage: "HH:MM"},
			&cli.StringFlag{Name: "venue", Required: true},
			&cli.StringFlag{Name: "description"},
			&cli.StringSliceFlag{Name: "tags"},
			&cli.IntFlag{Name: "capacity", Usage: "Maximum attendees, 0 for unlimited."},
		},
		Action: func(c *cli.Context) error {
			return withSession(c, func(e *env) error {
				event, err := e.ctrl.Post(c.Context, model.EventDraft{
					Title:       c.String("title"),
					Date:        c.String("date"),
					Time:        c.String("time"),
					Venue:       c.String("venue"),
					Description: c.String("description"),
					Tags:        c.StringSlice("tags"),
					Capacity:    c.Int("capacity"),
				})
				if err != nil {
					return err
				}
				logger.WithComponent("cli").Info("Event posted", zap.String("event_id", event.ID.String()))
				fmt.Fprintln(e.out, event.ID)
				return nil
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an event and its registrations.",
		ArgsUsage: "<event-id>",
		Action: func(c *cli.Context) error {
			id, err := eventArg(c)
			if err != nil {
				return err
			}
			return withSession(c, func(e *env) error {
				if err := e.ctrl.Delete(c.Context, id); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Register for an event and print the ticket code.",
		ArgsUsage: "<event-id>",
		Action: func(c *cli.Context) error {
			id, err := eventArg(c)
			if err != nil {
				return err
			}
			return withSession(c, func(e *env) error {
				reg, err := e.ctrl.Register(c.Context, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, reg.TicketCode)
				return nil
			})
		},
	}
}

func ticketsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tickets",
		Usage: "List your tickets, or export them with --out.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "Write the tickets CSV to this path, - for stdout."},
		},
		Action: func(c *cli.Context) error {
			return withSession(c, func(e *env) error {
				if c.IsSet("out") {
					_, body, err := e.app.Registrations.ExportTickets(c.Context, e.user)
					if err != nil {
						return err
					}
					return writeCSV(e.out, c.String("out"), body)
				}

				tickets, err := e.app.Registrations.Tickets(c.Context, e.user)
				if err != nil {
					return err
				}
				if len(tickets) == 0 {
					fmt.Fprintln(e.out, "No tickets yet.")
					return nil
				}
				w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CODE\tDATE\tTIME\tTITLE\tVENUE\t")
				for _, t := range tickets {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
						t.Registration.TicketCode, t.Event.Date, t.Event.Time, t.Event.Title, t.Event.Venue)
				}
				return w.Flush()
			})
		},
	}
}

func attendeesCommand() *cli.Command {
	return &cli.Command{
		Name:      "attendees",
		Usage:     "List who registered for an event.",
		ArgsUsage: "<event-id>",
		Action: func(c *cli.Context) error {
			id, err := eventArg(c)
			if err != nil {
				return err
			}
			return withSession(c, func(e *env) error {
				event, regs, err := e.app.Registrations.Attendees(c.Context, e.user, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s (%d registered)\n", event.Title, len(regs))
				w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
				for _, reg := range regs {
					fmt.Fprintf(w, "%s\t%s\t%s\t\n", reg.Name, reg.Email, reg.TicketCode)
				}
				return w.Flush()
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export an event's attendee list as CSV.",
		ArgsUsage: "[--out path] <event-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "Output path, - for stdout. Defaults to <title>_attendees.csv."},
		},
		Action: func(c *cli.Context) error {
			id, err := eventArg(c)
			if err != nil {
				return err
			}
			return withSession(c, func(e *env) error {
				filename, body, err := e.app.Registrations.ExportAttendees(c.Context, e.user, id)
				if err != nil {
					return err
				}
				path := c.String("out")
				if path == "" {
					path = filename
				}
				return writeCSV(e.out, path, body)
			})
		},
	}
}

func writeCSV(out io.Writer, path, body string) error {
	if path == "-" {
		_, err := io.WriteString(out, body)
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

func interestsCommand() *cli.Command {
	return &cli.Command{
		Name:  "interests",
		Usage: "Show your interest tags.",
		Action: func(c *cli.Context) error {
			return withSession(c, func(e *env) error {
				fmt.Fprintln(e.out, strings.Join(e.ctrl.State().Selection.Tags, ","))
				return nil
			})
		},
		Subcommands: []*cli.Command{
			{
				Name:      "toggle",
				Usage:     "Add or remove an interest tag.",
				ArgsUsage: "<tag>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one tag")
					}
					return withSession(c, func(e *env) error {
						if err := e.ctrl.ToggleTag(c.Context, c.Args().First()); err != nil {
							return err
						}
						fmt.Fprintln(e.out, strings.Join(e.ctrl.State().Selection.Tags, ","))
						return nil
					})
				},
			},
		},
	}
}
