package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/labbook/pkg/config"
	"github.com/stefanpenner/labbook/pkg/console"
)

func (a *app) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects under the projects root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := a.projects.List()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.outputJSON(ps)
			}
			fmt.Fprintln(a.out, console.RenderProjects(ps))
			return nil
		},
	}
}

func (a *app) newProjectCmd() *cobra.Command {
	var makeDefault bool
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.projects.Create(args[0])
			if err != nil {
				return err
			}
			if makeDefault || a.cfg.DefaultProject == "" {
				a.cfg.DefaultProject = p.Slug
				if err := config.Save(a.dataDir, a.cfg); err != nil {
					return err
				}
			}
			a.logger.Info("created project", "slug", p.Slug, "path", p.Path)

			if a.jsonOut {
				return a.outputJSON(p)
			}
			fmt.Fprintln(a.out, console.SuccessStyle.Render(fmt.Sprintf("Created project '%s' at %s", p.Name, p.Path)))
			if a.cfg.DefaultProject == p.Slug {
				fmt.Fprintln(a.out, console.MutedStyle.Render("Set as default project."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&makeDefault, "default", false, "make this the default project")
	return cmd
}
