package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ESIPFed/eskg/mapping"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect mapping profiles",
	Long:  `List and inspect the mapping profiles that configure how records are published.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := mapping.NewProfileRegistry()
		if err != nil {
			return err
		}

		profiles := registry.List()
		if len(profiles) == 0 {
			fmt.Println("No profiles found")
			return nil
		}

		fmt.Println("Available profiles:")
		for _, name := range profiles {
			profile, _ := registry.Get(name)
			desc := ""
			if profile.Description != "" {
				desc = " - " + profile.Description
			}
			fmt.Printf("  %s%s\n", profile.VersionedName(), desc)
		}

		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [profile]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := namedProfile(args[0])
		if err != nil {
			return err
		}

		// Print as YAML
		out, err := yaml.Marshal(profile)
		if err != nil {
			return err
		}

		fmt.Println(string(out))
		return nil
	},
}

var profilesFieldsCmd = &cobra.Command{
	Use:   "fields [profile]",
	Short: "List the field-mapping table under a profile's naming",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "podaac"
		if len(args) == 1 {
			name = args[0]
		}
		profile, err := namedProfile(name)
		if err != nil {
			return err
		}
		naming, err := profile.NamingRules()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tPROPERTY\tKIND\tREQUIRED")
		for _, n := range mapping.Fields() {
			required := ""
			if n.Required {
				required = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.PathString(), naming.Property(n), n.Kind, required)
		}
		return w.Flush()
	},
}

func namedProfile(name string) (*mapping.Profile, error) {
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	profile, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	return profile, nil
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesFieldsCmd)
}
