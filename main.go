package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Le1b1/intro-outro-generator/internal/config"
	"github.com/Le1b1/intro-outro-generator/pkg/generator"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "intro-outro-generator <project>",
		Short: "Render per-talk intro and outro segments with ffmpeg",
		Long: fmt.Sprintf(`intro-outro-generator renders title, speaker and a fixed caption onto a
template video for every talk of a conference schedule, using only ffmpeg
video filters. The project folder holds config.ini, the template and the fonts.

Output formats (selected by the template's extension):
%s
Examples:
  # Render the placeholder talk to check the layout
  intro-outro-generator yourproject/ --debug

  # Render two talks of the schedule, replacing existing files
  intro-outro-generator yourproject/ --id 4711,0815 --force

  # Render one room, leaving out a talk
  intro-outro-generator yourproject/ --room "HfG_Studio" --skip 4223`,
			formatSupportedFormats()),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &generator.Options{}

			debug, _ := cmd.Flags().GetBool("debug")
			ids, _ := cmd.Flags().GetStringSlice("id")
			rooms, _ := cmd.Flags().GetStringSlice("room")
			skip, _ := cmd.Flags().GetStringSlice("skip")
			force, _ := cmd.Flags().GetBool("force")
			verbose, _ := cmd.Flags().GetBool("verbose")

			if len(args) > 0 {
				opts.ProjectDir = args[0]
			}
			opts.Debug = debug
			opts.IDs = ids
			opts.Rooms = rooms
			opts.Skip = skip
			opts.Force = force
			opts.Verbose = verbose

			return generator.Run(opts)
		},
	}

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
)

func formatSupportedFormats() string {
	var sb strings.Builder
	for _, f := range generator.GetSupportedFormats() {
		sb.WriteString(fmt.Sprintf("- %s\n", f))
	}
	return sb.String()
}

func init() {
	rootCmd.Flags().Bool("debug", false, "Render the placeholder talk instead of reading the schedule (do not combine with --id)")
	rootCmd.Flags().StringSlice("id", nil, "Only render the given talk ID(s) (do not combine with --debug)")
	rootCmd.Flags().StringSlice("room", nil, "Only render talks in the given room(s)")
	rootCmd.Flags().StringSlice("skip", nil, "Skip the given talk ID(s)")
	rootCmd.Flags().Bool("force", false, "Render even if the output file exists")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		if config.IsError(err) {
			fmt.Println(bannerStyle.Render(err.Error()))
			fmt.Println()
			rootCmd.Usage()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
