// Command alarmctl drives the weather alarm backend from the terminal:
// account lifecycle, alarm management, push registration, and a watch mode
// that keeps the alarm list fresh while exposing status endpoints.
//
// Usage:
//
//	alarmctl register -email a@b.co -password secret12 -password-confirm secret12
//	alarmctl login -email a@b.co -password secret12
//	alarmctl alarms create -province Seoul -city Gangnam -district Gangnam -time 07:00 -days Mon,Tue
//	alarmctl alarms list
//	alarmctl push subscribe
//	alarmctl watch
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/JokerTrickster/weather-alarm/internal/adapter/api"
	httpadapter "github.com/JokerTrickster/weather-alarm/internal/adapter/http"
	pushadapter "github.com/JokerTrickster/weather-alarm/internal/adapter/push"
	"github.com/JokerTrickster/weather-alarm/internal/config"
	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/location"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
	"github.com/JokerTrickster/weather-alarm/internal/service"
	"github.com/JokerTrickster/weather-alarm/internal/state"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	switch args[0] {
	case "register":
		return a.register(args[1:])
	case "login":
		return a.login(args[1:])
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "reset-password":
		return a.resetPassword(args[1:])
	case "update-password":
		return a.updatePassword(args[1:])
	case "alarms":
		return a.alarmsCmd(args[1:])
	case "push":
		return a.pushCmd(args[1:])
	case "locations":
		return a.locationsCmd(args[1:])
	case "watch":
		return a.watch()
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: alarmctl <command> [flags]

commands:
  register         create an account and sign in
  login            sign in
  logout           sign out and clear the local session
  whoami           show the signed-in account
  reset-password   request a password reset mail
  update-password  complete a password reset
  alarms           list|create|update|delete|toggle
  push             subscribe|unsubscribe|status
  locations        browse the location catalog
  watch            poll alarms and serve status endpoints`)
}

// app bundles the wired client stack: one config, one session store, one
// REST client, and the session and alarm contexts on top.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	store   *storage.SessionStore
	auth    *service.Auth
	push    *service.Push
	session *state.Session
	alarms  *state.Alarms
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	store := storage.New(cfg.StateDir)

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, store, metrics, logger,
		api.WithUnauthorizedHook(func() {
			fmt.Fprintln(os.Stderr, domain.MsgUnauthorized)
		}))

	var capability pushadapter.Capability = pushadapter.Unsupported{}
	if cfg.VAPIDPublicKey != "" && cfg.StateDir != "" {
		capability = pushadapter.NewLocal(cfg.VAPIDPublicKey, cfg.StateDir, logger,
			pushadapter.WithPrompt(promptYesNo))
	}

	auth := service.NewAuth(client, store, logger)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		store:   store,
		auth:    auth,
		push:    service.NewPush(client, store, capability, metrics, logger),
		session: state.NewSession(auth, store, metrics, logger),
		alarms:  state.NewAlarms(service.NewAlarms(client), metrics, logger),
	}
	a.session.Hydrate()
	return a, nil
}

func (a *app) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return errors.New(domain.MsgUnauthorized)
	}
	return nil
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password, 8+ characters with letters and digits")
	confirm := fs.String("password-confirm", "", "password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := errors.Join(
		domain.ValidateEmail(*email),
		domain.ValidatePassword(*password),
		domain.ValidatePasswordConfirm(*password, *confirm),
	); err != nil {
		return err
	}

	req := domain.RegisterRequest{Email: *email, Password: *password, PasswordConfirm: *confirm}
	if err := a.session.Register(context.Background(), req); err != nil {
		return err
	}
	fmt.Printf("registered and signed in as %s\n", *email)
	return nil
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := errors.Join(
		domain.ValidateEmail(*email),
		domain.ValidatePassword(*password),
	); err != nil {
		return err
	}

	if err := a.session.Login(context.Background(), domain.LoginRequest{Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", *email)
	return nil
}

func (a *app) logout() error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func (a *app) whoami() error {
	user := a.session.User()
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Email, user.ID)
	return nil
}

func (a *app) resetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := domain.ValidateEmail(*email); err != nil {
		return err
	}

	if err := a.auth.ResetPassword(context.Background(), domain.ResetPasswordRequest{Email: *email}); err != nil {
		return err
	}
	fmt.Printf("reset mail requested for %s\n", *email)
	return nil
}

func (a *app) updatePassword(args []string) error {
	fs := flag.NewFlagSet("update-password", flag.ExitOnError)
	token := fs.String("token", "", "reset token from the mail")
	password := fs.String("password", "", "new password")
	confirm := fs.String("password-confirm", "", "new password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return errors.New("-token is required")
	}
	if err := errors.Join(
		domain.ValidatePassword(*password),
		domain.ValidatePasswordConfirm(*password, *confirm),
	); err != nil {
		return err
	}

	req := domain.UpdatePasswordRequest{Token: *token, NewPassword: *password, NewPasswordConfirm: *confirm}
	if err := a.auth.UpdatePassword(context.Background(), req); err != nil {
		return err
	}
	fmt.Println("password updated")
	return nil
}

func (a *app) alarmsCmd(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: alarmctl alarms list|create|update|delete|toggle")
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return a.alarmsList()
	case "create":
		return a.alarmsCreate(args[1:])
	case "update":
		return a.alarmsUpdate(args[1:])
	case "delete":
		return a.alarmsDelete(args[1:])
	case "toggle":
		return a.alarmsToggle(args[1:])
	default:
		return fmt.Errorf("unknown alarms subcommand %q", args[0])
	}
}

func (a *app) alarmsList() error {
	if err := a.alarms.Fetch(context.Background()); err != nil {
		return err
	}

	list := a.alarms.Alarms()
	if len(list) == 0 {
		fmt.Println("no alarms registered")
		return nil
	}
	for _, alarm := range list {
		fmt.Println(renderAlarm(alarm))
	}
	return nil
}

func (a *app) alarmsCreate(args []string) error {
	fs := flag.NewFlagSet("alarms create", flag.ExitOnError)
	province := fs.String("province", "", "province")
	city := fs.String("city", "", "city")
	district := fs.String("district", "", "district")
	alarmTime := fs.String("time", "", `daily time, "HH:MM" 24-hour`)
	days := fs.String("days", "", "comma-separated repeat days, Mon..Sun")
	disabled := fs.Bool("disabled", false, "create the alarm switched off")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repeatDays, err := parseDays(*days)
	if err != nil {
		return err
	}
	if err := errors.Join(
		domain.ValidateLocation(*province, *city, *district),
		domain.ValidateTime(*alarmTime),
		domain.ValidateRepeatDays(repeatDays),
	); err != nil {
		return err
	}
	if !location.Contains(*province, *city, *district) {
		return fmt.Errorf("unknown location: %s", domain.FormatLocation(*province, *city, *district))
	}

	ctx := context.Background()
	// Populate the local list first so the quota check sees current state.
	if err := a.alarms.Fetch(ctx); err != nil {
		return err
	}

	alarm, err := a.alarms.Create(ctx, domain.CreateAlarmRequest{
		Province:   *province,
		City:       *city,
		District:   *district,
		AlarmTime:  *alarmTime,
		RepeatDays: repeatDays,
		Enabled:    !*disabled,
	})
	if err != nil {
		return err
	}
	fmt.Println(renderAlarm(alarm))
	return nil
}

func (a *app) alarmsUpdate(args []string) error {
	fs := flag.NewFlagSet("alarms update", flag.ExitOnError)
	id := fs.String("id", "", "alarm id")
	province := fs.String("province", "", "new province")
	city := fs.String("city", "", "new city")
	district := fs.String("district", "", "new district")
	alarmTime := fs.String("time", "", `new daily time, "HH:MM" 24-hour`)
	days := fs.String("days", "", "new comma-separated repeat days")
	enabled := fs.Bool("enabled", true, "new enabled state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	// Only flags the user actually set travel in the request body.
	req := domain.UpdateAlarmRequest{ID: *id}
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "province":
			req.Province = province
		case "city":
			req.City = city
		case "district":
			req.District = district
		case "time":
			if err := domain.ValidateTime(*alarmTime); err != nil {
				parseErr = err
				return
			}
			req.AlarmTime = alarmTime
		case "days":
			ds, err := parseDays(*days)
			if err != nil {
				parseErr = err
				return
			}
			if err := domain.ValidateRepeatDays(ds); err != nil {
				parseErr = err
				return
			}
			req.RepeatDays = ds
		case "enabled":
			req.Enabled = enabled
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if req.Province != nil && req.City != nil && req.District != nil &&
		!location.Contains(*req.Province, *req.City, *req.District) {
		return fmt.Errorf("unknown location: %s", domain.FormatLocation(*req.Province, *req.City, *req.District))
	}

	alarm, err := a.alarms.Update(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Println(renderAlarm(alarm))
	return nil
}

func (a *app) alarmsDelete(args []string) error {
	fs := flag.NewFlagSet("alarms delete", flag.ExitOnError)
	id := fs.String("id", "", "alarm id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	if err := a.alarms.Delete(context.Background(), *id); err != nil {
		return err
	}
	fmt.Println("deleted", *id)
	return nil
}

func (a *app) alarmsToggle(args []string) error {
	fs := flag.NewFlagSet("alarms toggle", flag.ExitOnError)
	id := fs.String("id", "", "alarm id")
	enabled := fs.Bool("enabled", true, "desired enabled state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	alarm, err := a.alarms.Toggle(context.Background(), *id, *enabled)
	if err != nil {
		return err
	}
	fmt.Println(renderAlarm(alarm))
	return nil
}

func (a *app) pushCmd(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: alarmctl push subscribe|unsubscribe|status")
	}

	switch args[0] {
	case "subscribe":
		if err := a.requireAuth(); err != nil {
			return err
		}
		sub, err := a.push.Subscribe(context.Background())
		if err != nil {
			return err
		}
		fmt.Println("subscribed:", sub.Endpoint)
		return nil
	case "unsubscribe":
		if err := a.requireAuth(); err != nil {
			return err
		}
		if err := a.push.Unsubscribe(context.Background()); err != nil {
			return err
		}
		fmt.Println("unsubscribed")
		return nil
	case "status":
		fmt.Println("supported: ", a.push.IsSupported())
		fmt.Println("permission:", a.push.PermissionStatus())
		if sub := a.push.Subscription(); sub != nil {
			fmt.Println("endpoint:  ", sub.Endpoint)
		} else {
			fmt.Println("endpoint:   none")
		}
		return nil
	default:
		return fmt.Errorf("unknown push subcommand %q", args[0])
	}
}

func (a *app) locationsCmd(args []string) error {
	fs := flag.NewFlagSet("locations", flag.ExitOnError)
	province := fs.String("province", "", "list cities of this province")
	city := fs.String("city", "", "list districts of this city, requires -province")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *province == "" && *city != "":
		return errors.New("-city requires -province")
	case *province == "":
		for _, p := range location.Provinces() {
			fmt.Println(p)
		}
	case *city == "":
		cities := location.Cities(*province)
		if len(cities) == 0 {
			return fmt.Errorf("unknown province %q", *province)
		}
		for _, c := range cities {
			fmt.Println(c)
		}
	default:
		districts := location.Districts(*province, *city)
		if len(districts) == 0 {
			return fmt.Errorf("unknown city %q in %s", *city, *province)
		}
		for _, d := range districts {
			fmt.Println(d)
		}
	}
	return nil
}

// watch polls the alarm list on the configured interval and serves the
// status endpoints until interrupted.
func (a *app) watch() error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.session, a.session, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("status server error", "error", err)
		}
	}()

	if err := a.alarms.Fetch(ctx); err != nil {
		a.logger.Warn("initial fetch failed", "error", err)
	}
	a.logSchedule()

	ticker := time.NewTicker(a.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("status server shutdown error", "error", err)
			}
			return nil
		case <-ticker.C:
			if err := a.alarms.Fetch(ctx); err != nil {
				continue
			}
			a.logSchedule()
		}
	}
}

func (a *app) logSchedule() {
	for _, alarm := range a.alarms.Alarms() {
		if !alarm.Enabled {
			continue
		}
		next := alarm.NextTrigger()
		a.logger.Info("alarm scheduled",
			"id", alarm.ID,
			"location", alarm.Location(),
			"time", alarm.AlarmTime,
			"next", next.Format(time.RFC3339),
		)
	}
}

func renderAlarm(alarm domain.Alarm) string {
	state := "off"
	line := fmt.Sprintf("%s  %s  %s  %s",
		alarm.ID, alarm.Location(), domain.FormatTime(alarm.AlarmTime), joinDays(alarm.RepeatDays))
	if alarm.Enabled {
		state = "on"
		if next := alarm.NextTrigger(); !next.IsZero() {
			return fmt.Sprintf("%s  %s  next %s", line, state, next.Format("Mon 15:04"))
		}
	}
	return fmt.Sprintf("%s  %s", line, state)
}

func joinDays(days []domain.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func parseDays(s string) ([]domain.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var days []domain.Weekday
	for _, part := range strings.Split(s, ",") {
		day := domain.Weekday(strings.TrimSpace(part))
		if !day.Valid() {
			return nil, fmt.Errorf("unknown day %q, use Mon..Sun", part)
		}
		days = append(days, day)
	}
	return days, nil
}

func promptYesNo() bool {
	fmt.Print("Allow weather notifications? [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
