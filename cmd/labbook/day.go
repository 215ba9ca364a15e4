package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/labbook/pkg/console"
	"github.com/stefanpenner/labbook/pkg/digest"
	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

func (a *app) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [goal...]",
		Short: "Add goals to today (prompts when none are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			goals := args
			if len(goals) == 0 {
				ws.console.Header("Set Daily Goals")
				if goals, err = tracker.PromptGoals(ws.console); err != nil {
					return err
				}
			}
			log, err := ws.tracker.OpenDay(goals)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(log)
			}
			ws.console.Header("Today's Goals")
			ws.console.Print(console.RenderDay(log))
			return nil
		},
	}
}

func (a *app) reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review today's goals interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			s, err := ws.tracker.ReviewDay()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(s)
			}
			ws.console.Header("Goals Summary")
			ws.console.Print(console.RenderSummary(*s))
			return nil
		},
	}
}

func (a *app) carryOverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "carryover",
		Short: "List unfinished goals from earlier days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			cs := ws.tracker.FindCarryOverCandidates()
			if a.jsonOut {
				if cs == nil {
					cs = []store.CarryOverGoal{}
				}
				return a.outputJSON(cs)
			}
			ws.console.Print(console.RenderCandidates(cs))
			return nil
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			s, err := ws.tracker.Summary()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(s)
			}
			ws.console.Print(console.RenderSummary(s))
			return nil
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var status, note string
	cmd := &cobra.Command{
		Use:   "update <position>",
		Short: "Change a goal's status or add a progress note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid goal position %q", args[0])
			}
			var state store.GoalState
			if status != "" {
				if state, err = store.ParseGoalState(status); err != nil {
					return err
				}
			}
			if state == "" && strings.TrimSpace(note) == "" {
				return fmt.Errorf("nothing to update: pass --status and/or --note")
			}

			ws, err := a.open()
			if err != nil {
				return err
			}
			log, err := ws.tracker.UpdateGoal(pos, state, strings.TrimSpace(note))
			if err != nil {
				return err
			}
			s := tracker.Summarize(log, a.now(), a.cfg.TimeFormat)
			if a.jsonOut {
				return a.outputJSON(s.Goals[pos-1])
			}
			ws.console.Print(console.RenderSummary(s))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "new status (pending, in_progress, completed, blocked)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "progress note to append")
	return cmd
}

// since returns the start of the window covering the last days days,
// today included.
func since(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return store.StartOfDay(now).AddDate(0, 0, -(days - 1))
}

func (a *app) historyCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completion per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			if days == 0 {
				days = a.cfg.DigestDays
			}
			h := ws.tracker.History(since(a.now(), days))
			if a.jsonOut {
				if h == nil {
					h = []tracker.Summary{}
				}
				return a.outputJSON(h)
			}
			ws.console.Print(console.RenderHistory(h))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to include (default digest_days)")
	return cmd
}

func (a *app) digestCmd() *cobra.Command {
	var days int
	var write bool
	var show string
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Render a markdown digest of recent days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			if days == 0 {
				days = a.cfg.DigestDays
			}

			var d *digest.Digest
			if show != "" {
				day, err := time.ParseInLocation("2006-01-02", show, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --show date %q (use YYYY-MM-DD)", show)
				}
				if d, err = digest.Load(ws.project.Path, day); err != nil {
					return err
				}
			} else {
				from := since(a.now(), days)
				d = digest.Build(ws.project.Name, ws.tracker.History(from), a.now())
				exps, err := ws.research.ExperimentsSince(from)
				if err != nil {
					return err
				}
				ideas, err := ws.research.IdeasUpdatedSince(from)
				if err != nil {
					return err
				}
				d.AddResearch(exps, ideas)
			}

			if write && show == "" {
				path, err := digest.Write(ws.project.Path, d)
				if err != nil {
					return err
				}
				a.logger.Info("wrote digest", "path", path)
				if !a.jsonOut {
					ws.console.Success("Digest written to " + path)
				}
			}
			if a.jsonOut {
				return a.outputJSON(map[string]interface{}{"meta": d.Meta, "body": d.Body})
			}
			out, err := digest.Render(d, 80)
			if err != nil {
				return err
			}
			ws.console.Print(out)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to include (default digest_days)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "also save the digest under the project's digests/")
	cmd.Flags().StringVar(&show, "show", "", "show the digest saved on this date (YYYY-MM-DD) instead of building one")
	return cmd
}

func (a *app) insightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insight <observation> <implications>",
		Short: "Record an insight for today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			active, err := ws.research.Active()
			if err != nil {
				return err
			}
			in := store.Insight{Time: store.At(a.now()), Observation: args[0], Implications: args[1]}
			if active != nil {
				in.ExperimentID = &active.ID
			}
			log, err := ws.tracker.AddInsight(in)
			if err != nil {
				return err
			}
			if _, err := ws.research.RecordInsight(in); err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(map[string]int{"insights": len(log.Insights)})
			}
			if active != nil {
				ws.console.Success("Insight recorded for " + active.ID + ".")
			} else {
				ws.console.Success("Insight recorded.")
			}
			return nil
		},
	}
}

func (a *app) todoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "todo <text>",
		Short: "Record a todo for the next day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			log, err := ws.tracker.AddTodo(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(map[string]int{"next_day_todos": len(log.NextDayTodos)})
			}
			ws.console.Success("Todo recorded.")
			return nil
		},
	}
}
