package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
)

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns true when some are missing
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, "--"+required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		color.Red("missing: %s\n", strings.Join(missingFlags, " "))
		if len(providedFlags) > 0 {
			color.Green("provided: %s\n", strings.Join(providedFlags, " "))
		}

		cmd.Println("")
		_ = cmd.Usage()

		return true
	}

	return false
}

// confirmed asks on stdin unless yes is set.
func confirmed(yes bool, format string, args ...any) bool {
	if yes {
		return true
	}

	color.Yellow(format+" [y/N] ", args...)
	var answer string
	_, _ = fmt.Scanln(&answer)
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func printPages(pages ...*v1.Page) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Slug", "Title", "Published", "Version", "Updated"})
	for _, page := range pages {
		published := "no"
		if page.IsPublished {
			published = formatTime(page.PublishedAt)
		}
		table.Append([]string{
			page.Id,
			page.Slug,
			page.Title,
			published,
			strconv.FormatInt(page.LastVersionNumber, 10),
			formatTime(&page.UpdatedAt),
		})
	}
	table.Render()
}

func printBlocks(blocks []*v1.Block, withContent bool) {
	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"Position", "ID", "Type", "Name", "Visible"}
	if withContent {
		header = append(header, "Content")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)

	for _, block := range blocks {
		row := []string{
			strconv.Itoa(int(block.Position)),
			block.Id,
			block.BlockType,
			block.Name,
			strconv.FormatBool(block.IsVisible),
		}
		if withContent {
			row = append(row, string(block.Content))
		}
		table.Append(row)
	}
	table.Render()
}

func printVersions(versions ...*v1.Version) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Number", "ID", "Blocks", "Notes", "By", "Created"})
	for _, version := range versions {
		notes := ""
		if version.Notes != nil {
			notes = *version.Notes
		}
		table.Append([]string{
			strconv.FormatInt(version.VersionNumber, 10),
			version.Id,
			strconv.Itoa(int(version.BlockCount)),
			notes,
			version.CreatedBy,
			formatTime(&version.CreatedAt),
		})
	}
	table.Render()
}
