package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/labbook/pkg/console"
	"github.com/stefanpenner/labbook/pkg/research"
)

// argOrPrompt returns args[i] when present, otherwise asks for it.
func argOrPrompt(ws *workspace, args []string, i int, question string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}
	return ws.console.PromptText(question, "")
}

func (a *app) ideaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Capture and track research ideas",
	}
	cmd.AddCommand(a.ideaAddCmd(), a.ideaListCmd(), a.ideaStatusCmd())
	return cmd
}

func (a *app) ideaAddCmd() *cobra.Command {
	var fromNote int
	cmd := &cobra.Command{
		Use:   "add [title] [description]",
		Short: "Add an idea (prompts for what is missing)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			title, err := argOrPrompt(ws, args, 0, "Enter idea title")
			if err != nil {
				return err
			}
			description, err := argOrPrompt(ws, args, 1, "Enter description")
			if err != nil {
				return err
			}

			var note *research.PaperNote
			if fromNote > 0 {
				notes, err := ws.research.PaperNotes()
				if err != nil {
					return err
				}
				if fromNote > len(notes) {
					return fmt.Errorf("no paper note #%d (have %d)", fromNote, len(notes))
				}
				note = &notes[fromNote-1]
			}

			idea, err := ws.research.AddIdea(title, description, note)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(idea)
			}
			ws.console.Success(fmt.Sprintf("Added new idea: %s (%s)", idea.Title, idea.ID))
			return nil
		},
	}
	cmd.Flags().IntVar(&fromNote, "from-note", 0, "attach paper note #N (as numbered by 'note list')")
	return cmd
}

func (a *app) ideaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			ideas, err := ws.research.Ideas()
			if err != nil {
				return err
			}
			if a.jsonOut {
				if ideas == nil {
					ideas = []research.Idea{}
				}
				return a.outputJSON(ideas)
			}
			ws.console.Print(console.RenderIdeas(ideas))
			return nil
		},
	}
}

func (a *app) ideaStatusCmd() *cobra.Command {
	var next string
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an idea through seed, germinating, developing, blocked, ready",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := research.ParseIdeaStatus(args[1])
			if err != nil {
				return err
			}
			ws, err := a.open()
			if err != nil {
				return err
			}
			idea, err := ws.research.UpdateIdea(args[0], status, next)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(idea)
			}
			ws.console.Success(fmt.Sprintf("%s is now %s.", idea.ID, idea.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&next, "next", "", "replace the idea's next steps")
	return cmd
}

func (a *app) staleCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stale",
		Short: "List ideas not updated recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			if days <= 0 {
				days = a.cfg.StaleDays
			}
			stale, err := ws.research.StaleIdeas(days)
			if err != nil {
				return err
			}
			if a.jsonOut {
				if stale == nil {
					stale = []research.Idea{}
				}
				return a.outputJSON(stale)
			}
			ws.console.Print(console.RenderStaleIdeas(stale, days))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "idle days before an idea is stale (default stale_days)")
	return cmd
}

func (a *app) noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Reference pages of physical notebooks",
	}
	cmd.AddCommand(a.noteAddCmd(), a.noteListCmd())
	return cmd
}

func (a *app) noteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <notebook> <page> <type> <summary...>",
		Short: "Record a notebook page (type is H, E, R, I or Q)",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid page number %q", args[1])
			}
			ws, err := a.open()
			if err != nil {
				return err
			}
			note, err := ws.research.AddPaperNote(args[0], page, args[2], strings.Join(args[3:], " "))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(note)
			}
			ws.console.Success("Added paper note reference: " + note.Summary)
			return nil
		},
	}
}

func (a *app) noteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notebook page references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			notes, err := ws.research.PaperNotes()
			if err != nil {
				return err
			}
			if a.jsonOut {
				if notes == nil {
					notes = []research.PaperNote{}
				}
				return a.outputJSON(notes)
			}
			ws.console.Print(console.RenderPaperNotes(notes))
			return nil
		},
	}
}

func (a *app) experimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiment",
		Aliases: []string{"exp"},
		Short:   "Run experiments against hypotheses",
	}
	cmd.AddCommand(a.experimentStartCmd(), a.experimentConcludeCmd(), a.experimentShowCmd(), a.experimentListCmd())
	return cmd
}

func (a *app) experimentStartCmd() *cobra.Command {
	var method, idea string
	var params []string
	cmd := &cobra.Command{
		Use:   "start <hypothesis...>",
		Short: "Start an experiment, concluding any running one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]any, len(params))
			for _, p := range params {
				name, value, err := research.ParseParam(p)
				if err != nil {
					return err
				}
				values[name] = value
			}
			ws, err := a.open()
			if err != nil {
				return err
			}
			exp, previous, err := ws.research.StartExperiment(strings.Join(args, " "), method, values, idea)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(exp)
			}
			if previous != nil {
				ws.console.Warn("Concluded previous experiment " + previous.ID + " automatically.")
			}
			ws.console.Success("Started new experiment: " + exp.Hypothesis)
			ws.console.Print(console.RenderExperiment(exp))
			return nil
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", "", "methodology")
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&idea, "idea", "", "related idea id")
	return cmd
}

func (a *app) experimentConcludeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conclude [conclusions] [next steps]",
		Short: "Conclude the running experiment (prompts for what is missing)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			active, err := ws.research.Active()
			if err != nil {
				return err
			}
			if active == nil {
				return research.ErrNoActiveExperiment
			}
			conclusions, err := argOrPrompt(ws, args, 0, "Enter conclusions")
			if err != nil {
				return err
			}
			next, err := argOrPrompt(ws, args, 1, "Enter next steps")
			if err != nil {
				return err
			}
			exp, err := ws.research.ConcludeExperiment(conclusions, next)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(exp)
			}
			ws.console.Success("Experiment concluded successfully.")
			return nil
		},
	}
}

func (a *app) experimentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the running experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			exp, err := ws.research.Active()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(exp)
			}
			if exp == nil {
				ws.console.Warn("No experiment running.")
				return nil
			}
			ws.console.Print(console.RenderExperiment(exp))
			return nil
		},
	}
}

func (a *app) experimentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List concluded experiments and the running one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			exps, err := ws.research.Experiments()
			if err != nil {
				return err
			}
			active, err := ws.research.Active()
			if err != nil {
				return err
			}
			if active != nil {
				exps = append(exps, *active)
			}
			if a.jsonOut {
				if exps == nil {
					exps = []research.Experiment{}
				}
				return a.outputJSON(exps)
			}
			ws.console.Print(console.RenderExperiments(exps))
			return nil
		},
	}
}
