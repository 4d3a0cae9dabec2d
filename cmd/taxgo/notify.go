package main

import (
	"fmt"
	"log"
	"time"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/news"
	"github.com/rgehrsitz/taxgo/internal/notify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// notifier builds the configured sink: AMQP when a broker URL is set,
// otherwise the log.
func (a *app) notifier() (notify.Notifier, func()) {
	nc := a.settings.Notifications
	if nc.AMQPURL == "" {
		return notify.LogNotifier{Logger: a.logger}, func() {}
	}
	n, err := notify.NewAMQPNotifier(nc.AMQPURL, nc.Exchange, nc.Queue)
	if err != nil {
		a.logger.Fatal("failed to connect notifier", zap.String("exchange", nc.Exchange), zap.Error(err))
	}
	return n, func() { _ = n.Close() }
}

func printNotifications(cmd *cobra.Command, notes []domain.Notification) {
	for _, n := range notes {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", n.Priority, n.Title, n.Message)
	}
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send tax payment, deadline and savings reminders",
	Long: `Check for due reminders and savings opportunities for an income.

Without --watch the check runs once. With --watch the scheduler keeps checking
at the configured interval until interrupted.

Examples:
  taxgo notify --income 1,200,000 --country India --currency INR
  taxgo notify --income 1200000 --country India --currency INR --watch`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd)
		defer a.close()

		notifier, closeNotifier := a.notifier()
		defer closeNotifier()

		scheduler := notify.NewScheduler(notifier, a.logger)
		scheduler.Interval = a.settings.Notifications.Interval

		var calc *domain.Calculation
		if income, _ := cmd.Flags().GetString("income"); income != "" {
			calc = a.calculate(cmd)
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			if err := scheduler.Start(cmd.Context()); err != nil {
				a.logger.Fatal("failed to start scheduler", zap.Error(err))
			}
			if calc != nil {
				scheduler.Update(cmd.Context(), *calc)
			}
			a.logger.Info("scheduler running", zap.Duration("interval", scheduler.Interval))
			<-cmd.Context().Done()
			scheduler.Stop()
			return
		}

		var sent []domain.Notification
		if calc != nil {
			scheduler.Update(cmd.Context(), *calc)
			sent = append(sent, scheduler.SendSavings(cmd.Context(), *calc)...)
		}
		sent = append(sent, scheduler.Check(cmd.Context())...)

		if len(sent) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reminders due")
			return
		}
		printNotifications(cmd, sent)
	},
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show recent tax news",
	Long: `Fetch recent tax headlines. Requires TAXGO_NEWS_API_KEY (a .env file in the
working directory is read automatically).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd)
		defer a.close()

		cfg, err := news.LoadConfig()
		if err != nil {
			log.Fatal(err)
		}
		articles, err := news.NewClient(cfg, nil).FetchTaxNews(cmd.Context())
		if err != nil {
			a.logger.Fatal("failed to fetch news", zap.String("op", "news"), zap.Error(err))
		}

		out := cmd.OutOrStdout()
		if len(articles) == 0 {
			fmt.Fprintln(out, "No tax news found")
			return
		}
		for i, article := range articles {
			fmt.Fprintf(out, "%d. %s\n", i+1, article.Title)
			fmt.Fprintf(out, "   %s, %s\n", article.Source, article.PublishedAt.Format("Jan 2, 2006"))
			fmt.Fprintf(out, "   %s\n", article.URL)
		}

		if send, _ := cmd.Flags().GetBool("notify"); send {
			notifier, closeNotifier := a.notifier()
			defer closeNotifier()
			now := time.Now()
			for _, article := range articles {
				n := notify.NewPolicyUpdate(article.Title, article.Description, now)
				if err := notifier.Notify(cmd.Context(), n); err != nil {
					a.logger.Warn("failed to send policy update", zap.String("title", article.Title), zap.Error(err))
				}
			}
		}
	},
}

func init() {
	notifyCmd.Flags().String("income", "", "Annual income used for installment amounts and savings suggestions")
	notifyCmd.Flags().String("country", "India", "Jurisdiction name")
	notifyCmd.Flags().String("currency", "", "Currency of the income (default: the jurisdiction's currency)")
	notifyCmd.Flags().Bool("watch", false, "Keep running and check at the configured interval")

	newsCmd.Flags().Bool("notify", false, "Also send each headline as a policy-update notification")
}
