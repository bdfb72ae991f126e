package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
)

// RollbarLogger prints events to a std logger and forwards them to rollbar.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Address)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// event is one log call split by argument kind.
type event struct {
	msg     string
	errs    []error
	fields  map[string]interface{}
	usr     *user.User
	request *core.RequestInfo
	other   []interface{}
}

func newEvent(msg string, args []interface{}) event {
	ev := event{msg: msg, fields: make(map[string]interface{})}
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			ev.errs = append(ev.errs, a)
		case map[string]interface{}:
			for k, v := range a {
				ev.fields[k] = v
			}
		case user.User:
			if ev.usr == nil { // only keep one User
				usr := a
				ev.usr = &usr
			}
		case core.RequestInfo:
			req := a
			ev.request = &req
		default:
			ev.other = append(ev.other, a)
		}
	}
	if ev.request != nil {
		ev.fields["request_id"] = ev.request.ID
		ev.fields["request"] = ev.request.Method + " " + ev.request.Path
	}
	return ev
}

// rollbarArgs returns the args understood by rollbar-go: msg, errors, and the custom fields.
// The User is set as the rollbar person.
func (ev event) rollbarArgs() []interface{} {
	if ev.usr != nil {
		rollbar.SetPerson(ev.usr.ID, ev.usr.Name, ev.usr.Email)
	} else {
		rollbar.ClearPerson()
	}

	args := make([]interface{}, 0, len(ev.errs)+len(ev.other)+2)
	args = append(args, ev.msg)
	for _, err := range ev.errs {
		args = append(args, err)
	}
	args = append(args, ev.other...)
	if len(ev.fields) > 0 {
		args = append(args, ev.fields)
	}
	return args
}

func (l RollbarLogger) print(level string, ev event) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, ev.msg)
	if ev.request != nil {
		fmt.Fprintf(&b, "\n  request: %s %s %s", ev.request.ID, ev.request.Method, ev.request.Path)
	}
	if ev.usr != nil { // never the password hash
		fmt.Fprintf(&b, "\n  user: %s <%s> (%s)", ev.usr.ID, ev.usr.Email, ev.usr.Role)
	}
	for _, err := range ev.errs {
		fmt.Fprintf(&b, "\n  error: %+v", err)
	}

	keys := make([]string, 0, len(ev.fields))
	for k := range ev.fields {
		if k != "request_id" && k != "request" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s=%v", k, ev.fields[k])
	}
	for _, arg := range ev.other {
		fmt.Fprintf(&b, "\n  %+v", arg)
	}
	l.std.Println(b.String())
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	ev := newEvent(msg, args)
	rollbar.Debug(ev.rollbarArgs()...)
	l.print("DEBUG", ev)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	ev := newEvent(msg, args)
	rollbar.Info(ev.rollbarArgs()...)
	l.print("INFO", ev)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	ev := newEvent(msg, args)
	rollbar.Warning(ev.rollbarArgs()...)
	l.print("WARN", ev)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	ev := newEvent(msg, args)
	rollbar.Error(ev.rollbarArgs()...)
	l.print("ERROR", ev)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	ev := newEvent(msg, args)
	rollbar.Critical(ev.rollbarArgs()...)
	l.print("FATAL", ev)
	rollbar.Wait()
	l.std.Fatal(msg)
}
