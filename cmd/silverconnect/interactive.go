package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/silverconnect"
	"github.com/aretw0/silverconnect/internal/i18n"
	"github.com/aretw0/silverconnect/internal/presentation/tui"
	"github.com/aretw0/silverconnect/pkg/catalog"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Use the platform from the terminal",
	Long:  `Starts a menu-driven session for one member. Type q at any prompt to go back or quit.`,
	RunE:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	interactiveCmd.Flags().String("theme", "", "Markdown style: light, dark or auto")
}

// errQuit ends the current prompt sequence.
var errQuit = errors.New("quit")

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	printer, err := i18n.New(a.cfg.Locale)
	if err != nil {
		return err
	}

	jsonMode, _ := cmd.Flags().GetBool("json")
	var handler runner.IOHandler
	if jsonMode {
		handler = runner.NewJSONHandler(os.Stdin, cmd.OutOrStdout())
	} else {
		theme, _ := cmd.Flags().GetString("theme")
		render, err := tui.RendererFor(os.Stdout, theme)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		tui.PrintBanner(cmd.OutOrStdout())
		handler = runner.NewTextHandler(os.Stdin, cmd.OutOrStdout(), runner.WithTextHandlerRenderer(render))
	}

	if a.cfg.WatchCatalog && a.provider != nil {
		go func() {
			err := a.provider.Watch(ctx, func(c *catalog.Catalog) {
				if err := a.platform.UseCatalog(c); err != nil {
					a.logger.Warn("failed to apply catalog change", "err", err)
				}
			})
			if err != nil {
				a.logger.Error("catalog watch stopped", "err", err)
			}
		}()
	}

	s := &terminalSession{platform: a.platform, io: handler, printer: printer}
	err = s.run(ctx)
	if errors.Is(err, errQuit) || errors.Is(err, runner.ErrNoMoreInput) || errors.Is(err, context.Canceled) {
		return s.say(context.Background(), printer.Sprintf("cli.bye"))
	}
	return err
}

// terminalSession is the menu loop of one member.
type terminalSession struct {
	platform *silverconnect.Platform
	io       runner.IOHandler
	printer  *i18n.Printer
	username string
}

type menuItem struct {
	key string
	run func(ctx context.Context) (silverconnect.Result, error)
}

func (t *terminalSession) menu() []menuItem {
	return []menuItem{
		{"cli.menu.signup", t.signup},
		{"cli.menu.login", t.login},
		{"cli.menu.community", func(ctx context.Context) (silverconnect.Result, error) {
			return t.platform.BrowseAndJoinCommunity(ctx, t.io, t.username, t.hobbies(ctx)), nil
		}},
		{"cli.menu.activity", t.bookActivity},
		{"cli.menu.friends", t.findFriends},
		{"cli.menu.chat", t.sendMessage},
		{"cli.menu.notifications", func(ctx context.Context) (silverconnect.Result, error) {
			return t.platform.CheckNotifications(ctx, t.username), nil
		}},
		{"cli.menu.settings", t.changeSetting},
		{"cli.menu.dashboard", func(ctx context.Context) (silverconnect.Result, error) {
			return t.platform.ShowDashboard(ctx, t.username), nil
		}},
	}
}

func (t *terminalSession) run(ctx context.Context) error {
	username, err := t.ask(ctx, "cli.username")
	if err != nil {
		return err
	}
	t.username = username

	items := t.menu()
	for {
		var b strings.Builder
		options := make([]string, len(items))
		for i, item := range items {
			options[i] = strconv.Itoa(i + 1)
			fmt.Fprintf(&b, "%d. %s\n", i+1, t.printer.Sprintf(item.key))
		}
		if err := t.io.Output(ctx, []domain.ActionRequest{domain.Render(b.String())}); err != nil {
			return err
		}
		answer, err := t.io.Input(ctx, domain.InputRequest{
			Prompt:  t.printer.Sprintf("cli.menu"),
			Type:    domain.InputChoice,
			Options: options,
		})
		if err != nil {
			return err
		}
		if domain.IsQuit(answer) {
			return errQuit
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(items) {
			continue
		}

		res, err := items[n-1].run(ctx)
		if errors.Is(err, errQuit) {
			continue
		}
		if err != nil {
			return err
		}
		if err := t.show(ctx, res); err != nil {
			return err
		}
	}
}

func (t *terminalSession) show(ctx context.Context, res silverconnect.Result) error {
	actions := []domain.ActionRequest{domain.SystemMessage(res.Message)}
	switch data := res.Data.(type) {
	case silverconnect.Dashboard:
		actions = append(actions, domain.Render(t.platform.DashboardView(data)))
	case []domain.Notification:
		var b strings.Builder
		for _, n := range data {
			fmt.Fprintf(&b, "- **%s**: %s\n", n.Category, n.Text)
		}
		actions = append(actions, domain.Render(b.String()))
	case silverconnect.Friends:
		var b strings.Builder
		for _, person := range data.Results {
			fmt.Fprintf(&b, "- **%s** (%d): %s\n", person.Name, person.Age, strings.Join(person.Interests, ", "))
		}
		actions = append(actions, domain.Render(b.String()))
	}
	return t.io.Output(ctx, actions)
}

func (t *terminalSession) say(ctx context.Context, msg string) error {
	return t.io.Output(ctx, []domain.ActionRequest{domain.SystemMessage(msg)})
}

// ask reads a free text answer. q or quit returns errQuit.
func (t *terminalSession) ask(ctx context.Context, key string) (string, error) {
	answer, err := t.io.Input(ctx, domain.InputRequest{Prompt: t.printer.Sprintf(key), Type: domain.InputText})
	if err != nil {
		return "", err
	}
	if domain.IsQuit(answer) {
		return "", errQuit
	}
	return answer, nil
}

// askAll asks every key in order and stops at the first error.
func (t *terminalSession) askAll(ctx context.Context, keys ...string) ([]string, error) {
	answers := make([]string, 0, len(keys))
	for _, key := range keys {
		answer, err := t.ask(ctx, key)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// hobbies returns the member's hobbies, used to recommend communities first.
func (t *terminalSession) hobbies(ctx context.Context) []string {
	rec, err := t.platform.Users().Lookup(ctx, t.username)
	if err != nil {
		return nil
	}
	return rec.Hobbies
}

func (t *terminalSession) signup(ctx context.Context) (silverconnect.Result, error) {
	a, err := t.askAll(ctx, "cli.email", "cli.password", "cli.confirm_password", "cli.full_name")
	if err != nil {
		return silverconnect.Result{}, err
	}
	res := t.platform.Signup(ctx, silverconnect.SignupForm{
		Username:        t.username,
		Email:           a[0],
		Password:        a[1],
		ConfirmPassword: a[2],
		FullName:        a[3],
	})
	if !res.Success {
		return res, nil
	}
	if err := t.show(ctx, res); err != nil {
		return silverconnect.Result{}, err
	}

	p, err := t.askAll(ctx, "cli.mode", "cli.hobbies")
	if err != nil {
		return silverconnect.Result{}, err
	}
	return t.platform.SetupProfile(ctx, t.username, silverconnect.ProfileForm{Mode: p[0], Hobbies: splitList(p[1])}), nil
}

func (t *terminalSession) login(ctx context.Context) (silverconnect.Result, error) {
	password, err := t.ask(ctx, "cli.password")
	if err != nil {
		return silverconnect.Result{}, err
	}
	return t.platform.Login(ctx, t.username, password), nil
}

func (t *terminalSession) bookActivity(ctx context.Context) (silverconnect.Result, error) {
	difficulty, err := t.ask(ctx, "cli.difficulty")
	if err != nil {
		return silverconnect.Result{}, err
	}
	q := silverconnect.ActivityQuery{Difficulty: difficulty, Interests: t.hobbies(ctx)}
	return t.platform.FindAndBookActivity(ctx, t.io, t.username, q), nil
}

func (t *terminalSession) findFriends(ctx context.Context) (silverconnect.Result, error) {
	interest, err := t.ask(ctx, "cli.interest")
	if err != nil {
		return silverconnect.Result{}, err
	}
	res := t.platform.DiscoverFriends(ctx, t.username, silverconnect.FriendQuery{Interest: interest})
	if err := t.show(ctx, res); err != nil || !res.Success {
		return res, err
	}

	name, err := t.ask(ctx, "cli.friend")
	if err != nil || name == "" {
		return res, err
	}
	a, err := t.askAll(ctx, "cli.actions", "cli.message")
	if err != nil {
		return silverconnect.Result{}, err
	}
	return t.platform.DiscoverFriends(ctx, t.username, silverconnect.FriendQuery{
		Interest: interest,
		Name:     name,
		Actions:  splitList(a[0]),
		Message:  a[1],
	}), nil
}

func (t *terminalSession) sendMessage(ctx context.Context) (silverconnect.Result, error) {
	a, err := t.askAll(ctx, "cli.friend", "cli.message")
	if err != nil {
		return silverconnect.Result{}, err
	}
	return t.platform.SendMessage(ctx, t.username, a[0], a[1]), nil
}

func (t *terminalSession) changeSetting(ctx context.Context) (silverconnect.Result, error) {
	a, err := t.askAll(ctx, "cli.setting", "cli.value")
	if err != nil {
		return silverconnect.Result{}, err
	}
	return t.platform.UpdateSettings(ctx, t.username, a[0], a[1]), nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
