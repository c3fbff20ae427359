package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/silverconnect"
	"github.com/aretw0/silverconnect/internal/presentation/tui"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the demonstration through the platform",
	Long: `Signs up a new member, books an activity, makes a friend and shows the dashboard.
Answers to the interactive prompts are scripted and echoed.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	tui.PrintBanner(out)
	demo(cmd.Context(), a.platform, out)
	return nil
}

// demoUser is the member the demonstration signs up.
const demoUser = "elder1"

type demoStep struct {
	title   string
	answers []string
	run     func(ctx context.Context, io runner.IOHandler) silverconnect.Result
}

// demo runs every step and reports each Result. Failures are part of the
// demonstration and do not stop it.
func demo(ctx context.Context, p *silverconnect.Platform, out io.Writer) {
	hobbies := []string{"Reading", "Gardening", "Yoga"}
	steps := []demoStep{
		{title: "Sign up", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.Signup(ctx, silverconnect.SignupForm{
				Username:        demoUser,
				Email:           "elder1@example.com",
				Password:        "pass123",
				ConfirmPassword: "pass123",
				FullName:        "Elder One",
			})
		}},
		{title: "Set up profile", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.SetupProfile(ctx, demoUser, silverconnect.ProfileForm{
				Mode:    domain.ModeRomance,
				Hobbies: hobbies,
				Story:   "Retired teacher who loves mornings in the garden.",
			})
		}},
		{title: "Log in", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.Login(ctx, demoUser, "pass123")
		}},
		{title: "Recommend activities", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.RecommendActivities(ctx, demoUser, silverconnect.RecommendationQuery{})
		}},
		{title: "Join a community", answers: []string{"1", "y"}, run: func(ctx context.Context, io runner.IOHandler) silverconnect.Result {
			return p.BrowseAndJoinCommunity(ctx, io, demoUser, hobbies)
		}},
		{title: "Book an easy activity", answers: []string{"9", "1", "y"}, run: func(ctx context.Context, io runner.IOHandler) silverconnect.Result {
			return p.FindAndBookActivity(ctx, io, demoUser, silverconnect.ActivityQuery{Difficulty: "mudah"})
		}},
		{title: "Book it again", answers: []string{"1", "y"}, run: func(ctx context.Context, io runner.IOHandler) silverconnect.Result {
			return p.FindAndBookActivity(ctx, io, demoUser, silverconnect.ActivityQuery{Difficulty: "mudah"})
		}},
		{title: "Find people who like Yoga", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.DiscoverFriends(ctx, demoUser, silverconnect.FriendQuery{Interest: "Yoga"})
		}},
		{title: "Chat with Diana before adding her", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.DiscoverFriends(ctx, demoUser, silverconnect.FriendQuery{Interest: "Yoga", Name: "Diana", Actions: []string{"chat"}, Message: "Hello!"})
		}},
		{title: "Add, like and greet Diana", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.DiscoverFriends(ctx, demoUser, silverconnect.FriendQuery{Interest: "Yoga", Name: "Diana", Actions: []string{"add", "like", "chat"}, Message: "Hello Diana!"})
		}},
		{title: "Send Diana a message", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.SendMessage(ctx, demoUser, "Diana", "See you at Yoga Sunrise tomorrow?")
		}},
		{title: "Check notifications", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.CheckNotifications(ctx, demoUser)
		}},
		{title: "Use a larger font", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.UpdateSettings(ctx, demoUser, "font", "Large")
		}},
		{title: "Show the dashboard", run: func(ctx context.Context, _ runner.IOHandler) silverconnect.Result {
			return p.ShowDashboard(ctx, demoUser)
		}},
	}

	for _, st := range steps {
		fmt.Fprintf(out, "\n== %s ==\n", st.title)
		io := runner.NewScriptedHandler(st.answers...)
		io.Echo = out
		report(out, p, st.run(ctx, io))
		if ctx.Err() != nil {
			return
		}
	}
}

func report(out io.Writer, p *silverconnect.Platform, res silverconnect.Result) {
	mark := "ok"
	if !res.Success {
		mark = "failed"
	}
	fmt.Fprintf(out, "[%s] %s\n", mark, res.Message)

	switch data := res.Data.(type) {
	case []domain.Notification:
		for _, n := range data {
			fmt.Fprintf(out, "  - (%s) %s\n", n.Category, n.Text)
		}
	case []domain.Recommendation:
		for _, r := range data {
			fmt.Fprintf(out, "  - %s, %s (%d%%)\n", r.Activity.Name, r.Activity.Time, r.Match())
		}
	case silverconnect.Friends:
		for _, person := range data.Results {
			fmt.Fprintf(out, "  - %s, %d: %v\n", person.Name, person.Age, person.Interests)
		}
	case silverconnect.Dashboard:
		fmt.Fprintln(out)
		fmt.Fprint(out, p.DashboardView(data))
	}
}
