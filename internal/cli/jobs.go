package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-name]",
	Short: "List or inspect registered jobs",
	Long: `List all registered jobs or inspect a specific job by name.

Examples:
  tablerag jobs                   # List all jobs
  tablerag jobs products_search   # Show details for one job`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobs,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-name>",
	Short: "Delete a job and its embeddings",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

func init() {
	jobsCmd.AddCommand(jobsDeleteCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return showJob(cmd, args[0])
	}

	jobs, err := dbClient.ListJobs(cmd.Context())
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs registered")
		return nil
	}

	fmt.Printf("%-24s %-24s %-28s %-14s %s\n", "NAME", "TABLE", "MODEL", "METRIC", "SCHEDULE")
	fmt.Println(strings.Repeat("-", 100))
	for _, job := range jobs {
		fmt.Printf("%-24s %-24s %-28s %-14s %s\n",
			job.Name, job.Schema+"."+job.Table, job.Model.String(), job.IndexDist, job.Schedule)
	}
	return nil
}

func showJob(cmd *cobra.Command, name string) error {
	job, err := dbClient.GetJob(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	fmt.Printf("Job: %s\n", job.Name)
	fmt.Printf("  Table: %s.%s\n", job.Schema, job.Table)
	fmt.Printf("  Columns: %s\n", strings.Join(job.Columns, ", "))
	fmt.Printf("  Primary key: %s\n", job.PrimaryKey)
	if job.UpdateCol != "" {
		fmt.Printf("  Update column: %s\n", job.UpdateCol)
	}
	fmt.Printf("  Model: %s\n", job.Model.String())
	fmt.Printf("  Metric: %s\n", job.IndexDist)
	fmt.Printf("  Method: %s\n", job.TableMethod)
	fmt.Printf("  Schedule: %s\n", job.Schedule)
	fmt.Printf("  Created: %s\n", job.CreatedAt.Format(time.RFC3339))
	fmt.Printf("  Updated: %s\n", job.UpdatedAt.Format(time.RFC3339))
	return nil
}

func runJobsDelete(cmd *cobra.Command, args []string) error {
	if err := dbClient.DeleteJob(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	fmt.Printf("Deleted job: %s\n", args[0])
	return nil
}
