package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                { return s.loggedIn }
func (s *stubExec) Register(context.Context) error  { return s.record("register") }
func (s *stubExec) Login(context.Context) error     { s.loggedIn = true; return s.record("login") }
func (s *stubExec) Logout(context.Context) error    { s.loggedIn = false; return s.record("logout") }
func (s *stubExec) List(context.Context) error      { return s.record("list") }
func (s *stubExec) AddEvent(context.Context) error  { return s.record("add") }
func (s *stubExec) SetStatus(context.Context) error { return s.record("status") }
func (s *stubExec) Cancel(context.Context) error    { return s.record("cancel") }
func (s *stubExec) Attach(context.Context) error    { return s.record("attach") }
func (s *stubExec) History(context.Context) error   { return s.record("history") }
func (s *stubExec) Export(context.Context) error    { return s.record("export") }
func (s *stubExec) Import(context.Context) error    { return s.record("import") }
func (s *stubExec) Scan(context.Context) error      { return s.record("scan") }
func (s *stubExec) Orgs(context.Context) error      { return s.record("orgs") }
func (s *stubExec) AddOrg(context.Context) error    { return s.record("addorg") }

func runScript(t *testing.T, s *stubExec, script string) []string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, a := range args {
			if str, ok := a.(string); ok {
				printed = append(printed, str)
			}
		}
		return 0, nil
	}
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), s, func() string { return "test" }, scanner)
	return printed
}

func TestREPLDispatch(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "login\nlist\nadd\nexport\nlogout\nexit\n")
	assert.Equal(t, []string{"login", "list", "add", "export", "logout"}, s.calls)
}

func TestREPLGatesCommandsByLogin(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "list\nexport\nregister\n")
	assert.Equal(t, []string{"register"}, s.calls)
}

func TestREPLUnknownCommand(t *testing.T) {
	s := &stubExec{loggedIn: true}
	printed := runScript(t, s, "frobnicate\nexit\n")
	found := false
	for _, p := range printed {
		if strings.Contains(p, "Unknown command") {
			found = true
		}
	}
	assert.True(t, found)
	assert.Empty(t, s.calls)
}

func TestREPLExitsOnEOF(t *testing.T) {
	s := &stubExec{loggedIn: true}
	runScript(t, s, "list\n")
	assert.Equal(t, []string{"list"}, s.calls)
}

func TestREPLHelp(t *testing.T) {
	s := &stubExec{}
	printed := runScript(t, s, "help\nlogin\nhelp\nexit\n")
	joined := strings.Join(printed, "\n")
	assert.Contains(t, joined, "register, login, exit")
	assert.Contains(t, joined, "addorg")
}
