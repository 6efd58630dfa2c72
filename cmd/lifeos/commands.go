package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/t77yq/lifeos/internal/assist"
	"github.com/t77yq/lifeos/internal/model"
	"github.com/t77yq/lifeos/internal/monitor"
)

func tasksCmd(env func() appEnv) *cobra.Command {
	var status string
	var ready bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), env(), func(a *app) error {
				tasks := a.store.Tasks()
				if ready {
					tasks = a.store.ReadyTasks()
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tURGENCY\tDUE\tCOST")
				for _, t := range tasks {
					if status != "" && string(t.Status) != status {
						continue
					}
					due := "-"
					if t.DueDate != nil {
						due = t.DueDate.Format("2006-01-02")
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.2f\n",
						t.ID, t.Title, t.Status, t.Urgency, due, a.store.ComputeCost(t.ID))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (pending, in_progress, blocked, completed)")
	cmd.Flags().BoolVar(&ready, "ready", false, "Only pending tasks whose prerequisites are complete")

	return cmd
}

func addTaskCmd(env func() appEnv) *cobra.Command {
	var due string
	var parent string
	var urgency int

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := model.Task{Title: args[0], Urgency: model.Level(urgency)}
			if due != "" {
				d, err := time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				task.DueDate = &d
			}

			return withApp(cmd.Context(), env(), func(a *app) error {
				var stored model.Task
				if parent != "" {
					var err error
					if stored, err = a.store.AddSubtask(parent, task); err != nil {
						return err
					}
				} else {
					stored = a.store.AddTask(task)
				}
				fmt.Println(stored.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent task id")
	cmd.Flags().IntVarP(&urgency, "urgency", "u", int(model.LevelMedium), "Urgency 1-4")

	return cmd
}

func completeCmd(env func() appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "complete [task-id]",
		Short: "Complete a task, spawning its next occurrence if it recurs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), env(), func(a *app) error {
				if _, ok := a.store.Task(args[0]); !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				successor, recurred := a.store.CompleteTask(args[0])
				if recurred {
					due := "-"
					if successor.DueDate != nil {
						due = successor.DueDate.Format("2006-01-02")
					}
					fmt.Printf("Completed. Next occurrence %s due %s\n", successor.ID, due)
					return nil
				}
				fmt.Println("Completed.")
				return nil
			})
		},
	}
}

func costCmd(env func() appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "cost [task-id]",
		Short: "Show the aggregated cost of a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), env(), func(a *app) error {
				task, ok := a.store.Task(args[0])
				if !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				frozen := ""
				if task.IsCompleted() && task.CostCache != nil {
					frozen = " (frozen)"
				}
				fmt.Printf("%s: %.2f%s\n", task.Title, a.store.ComputeCost(task.ID), frozen)
				return nil
			})
		},
	}
}

func notificationsCmd(env func() appEnv) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Scan for due notifications and list them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), env(), func(a *app) error {
				a.store.GenerateNotifications()

				notifications := a.store.UnreadNotifications()
				if all {
					notifications = a.store.Notifications()
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTYPE\tMESSAGE\tLINK")
				for _, n := range notifications {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.Type, n.Message, n.LinkTo)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include read and snoozed notifications")

	return cmd
}

func usageCmd(env func() appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "usage [asset-id] [reading]",
		Short: "Record an asset usage reading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reading, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid reading %q: %w", args[1], err)
			}

			return withApp(cmd.Context(), env(), func(a *app) error {
				if !a.store.UpdateAssetUsage(args[0], reading) {
					return fmt.Errorf("asset %s not found", args[0])
				}
				for _, n := range a.store.UnreadNotifications() {
					if n.Type == model.NotificationAlert {
						fmt.Printf("! %s\n", n.Message)
					}
				}
				return nil
			})
		},
	}
}

func statsCmd(env func() appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize tasks, notifications and errands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), env(), func(a *app) error {
				stats := monitor.NewStatsCollector(a.store, a.logger).Collect()

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				for _, status := range []model.TaskStatus{
					model.TaskStatusPending, model.TaskStatusInProgress,
					model.TaskStatusBlocked, model.TaskStatusCompleted,
				} {
					fmt.Fprintf(w, "tasks %s\t%d\n", status, stats.TasksByStatus[status])
				}
				fmt.Fprintf(w, "overdue\t%d\n", stats.OverdueTasks)
				fmt.Fprintf(w, "urgent\t%d\n", stats.UrgentTasks)
				fmt.Fprintf(w, "unread notifications\t%d\n", stats.UnreadNotifications)
				fmt.Fprintf(w, "pending suggestions\t%d\n", stats.PendingSuggestions)
				fmt.Fprintf(w, "shopping items needed\t%d\n", stats.NeededItems)
				return w.Flush()
			})
		},
	}
}

func receiptCmd(env func() appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt [image-file]",
		Short: "Parse a receipt and mark matching shopping items as acquired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read receipt: %w", err)
			}

			return withApp(cmd.Context(), env(), func(a *app) error {
				if a.cfg.Assist.BaseURL == "" {
					return fmt.Errorf("assist.base_url is not configured")
				}
				client := assist.NewClient(a.cfg.Assist.BaseURL, a.cfg.Assist.Timeout, a.logger)
				guard := assist.NewGuard(nil, client, a.logger)

				receipt := guard.ParseReceipt(cmd.Context(), image)
				if len(receipt.Items) == 0 {
					fmt.Println("No items read from receipt.")
					return nil
				}
				matched, created := a.store.ReconcileReceipt(receipt)
				fmt.Printf("%s: %d matched, %d added\n", receipt.Vendor, matched, created)
				return nil
			})
		},
	}
}
