package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/catalogcheck/pkg/policy"
)

// policiesCommand lists the policies that --policy accepts.
func (c *CLI) policiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List available update policies",
		Long: `List the built-in update policies and those declared in the config file.

Pass one or more names to "check --policy"; a candidate must satisfy all of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			reg, err := newRegistry(cfg)
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				p, _ := reg.Lookup(name)
				label := name
				if name == policy.StabilityLevelName {
					label += " (default)"
				}
				printKeyValue(c.out, label, p.Description())
			}
			return nil
		},
	}
}

// newRegistry returns the built-in policies plus those declared in cfg.
func newRegistry(cfg *Config) (*policy.Registry, error) {
	reg := policy.DefaultRegistry()
	if err := reg.Load(policy.PatternLoader(cfg.Policies)); err != nil {
		return nil, err
	}
	return reg, nil
}
