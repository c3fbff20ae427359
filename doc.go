/*
Package silverconnect is the coordinator of a small social platform for seniors: accounts,
communities, activities, friends, notifications, settings, a dashboard and chat.

Every domain is a finite state machine (see internal/runtime) driven over a per-user session.
Platform owns one engine per domain and exposes coarse operations that sequence them. Each
operation runs under the user's session lock, restores the session snapshot, steps the engine
and saves the snapshot again. Failures never cross the boundary as errors or panics: every
operation returns a Result whose Err carries the classified cause (see pkg/domain).

# Usage

	p, err := silverconnect.New(silverconnect.WithLocale("id"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	res := p.Signup(ctx, silverconnect.SignupForm{
		Username:        "elder1",
		Email:           "elder1@example.com",
		Password:        "pass123",
		ConfirmPassword: "pass123",
		FullName:        "Elder One",
	})
	fmt.Println(res.Success, res.Message)

Interactive operations (BrowseAndJoinCommunity, FindAndBookActivity,
CompleteOnboardingJourney) take a runner.IOHandler that renders listings and collects
answers. Invalid answers are re-prompted up to the configured number of attempts; q or quit
cancels.

# Infrastructure

By default everything lives in memory and the catalog is the embedded YAML. Options plug in
the redis or sqlite session stores, the redis claim ledger and distributed locker, prometheus
metrics and an OpenTelemetry tracer.
*/
package silverconnect
