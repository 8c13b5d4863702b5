package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/kballard/go-shellquote"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
	"github.com/cleared-dev/ledgerlab/internal/activity"
	"github.com/cleared-dev/ledgerlab/internal/id"
	"github.com/cleared-dev/ledgerlab/internal/journal"
	"github.com/cleared-dev/ledgerlab/internal/ledger"
	"github.com/cleared-dev/ledgerlab/internal/model"
	"github.com/cleared-dev/ledgerlab/internal/scenarios"
)

// Options controls session output.
type Options struct {
	EchoTotals  bool            // print totals after every posting
	NewestFirst bool            // history order
	ScaleFloor  decimal.Decimal // minimum bar scale for totals
	Strict      bool            // Run stops at the first failing command
}

// Session reads commands and drives one ledger engine, rendering results as
// text. It never touches account state except through the engine.
type Session struct {
	engine *ledger.Engine
	out    io.Writer
	opts   Options
	log    *logrus.Logger
	cmds   map[string]command

	now      func() time.Time
	activity []activity.Entry
}

type command struct {
	usage string
	help  string
	run   func(s *Session, args []string) error
}

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// UsageError reports a command invoked with the wrong arguments.
type UsageError struct {
	Command string
	Usage   string
}

func (e UsageError) Error() string {
	return fmt.Sprintf("usage: %s %s", e.Command, e.Usage)
}

// New creates a Session writing to out.
func New(engine *ledger.Engine, out io.Writer, opts Options, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Session{
		engine: engine,
		out:    out,
		opts:   opts,
		log:    log,
		cmds:   commands(),
		now:    time.Now,
	}
}

func commands() map[string]command {
	return map[string]command{
		"help":      {"", "list commands", (*Session).help},
		"reset":     {"", "restore the seed accounts and clear history", (*Session).reset},
		"account":   {"<clear> <name>", "create an account (clear: C, L, E, A or R)", (*Session).createAccount},
		"post":      {"<debit> <credit> <amount> [description]", "post a transaction", (*Session).post},
		"scenario":  {"<n|all>", "post a built-in scenario", (*Session).scenario},
		"scenarios": {"", "list built-in scenarios", (*Session).listScenarios},
		"totals":    {"", "show CLEAR totals and the accounting equation", (*Session).totals},
		"accounts":  {"[clear]", "list accounts and balances", (*Session).accounts},
		"show":      {"<account>", "show an account as a T-account", (*Session).show},
		"history":   {"", "list posted transactions", (*Session).history},
		"check":     {"", "verify balances against entries and the equation", (*Session).check},
		"export":    {"<journal|chart>", "write the journal or chart of accounts as CSV", (*Session).export},
		"dump":      {"", "dump the full ledger state", (*Session).dump},
		"quit":      {"", "end the session", func(*Session, []string) error { return ErrQuit }},
	}
}

// Run executes each line of r. Blank lines and lines starting with '#' are
// skipped. Command errors are printed and, unless Strict, do not stop the
// run. It returns the number of failed commands.
func (s *Session) Run(r io.Reader) (int, error) {
	failed := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := s.Exec(line)
		if errors.Is(err, ErrQuit) {
			return failed, nil
		}
		if err != nil {
			failed++
			fmt.Fprintf(s.out, "error: %v\n", err)
			s.log.WithError(err).WithField("line", lineNo).Warn("Session.Exec.Error")
			if s.opts.Strict {
				return failed, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("reading commands: %w", err)
	}
	return failed, nil
}

// Exec runs a single command line and records it in the activity log.
func (s *Session) Exec(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	before := s.engine.Step()
	err := s.exec(line)
	if errors.Is(err, ErrQuit) {
		return err
	}

	entry := activity.Entry{
		Timestamp: s.now(),
		Step:      s.engine.Step(),
		Command:   line,
		Outcome:   activity.OutcomeOK,
	}
	if err != nil {
		entry.Outcome = activity.OutcomeError
		entry.Details = err.Error()
	}
	if entry.Step > before {
		entry.EntryID = id.FormatEntryID(entry.Step)
	}
	s.activity = append(s.activity, entry)
	return err
}

// Activity returns the commands run so far, oldest first.
func (s *Session) Activity() []activity.Entry {
	out := make([]activity.Entry, len(s.activity))
	copy(out, s.activity)
	return out
}

func (s *Session) exec(line string) error {
	words, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil
	}
	name := strings.ToLower(words[0])
	cmd, ok := s.cmds[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", words[0])
	}
	s.log.WithField("command", name).Debug("Session.Exec")
	return cmd.run(s, words[1:])
}

func (s *Session) usage(name string) error {
	return UsageError{Command: name, Usage: s.cmds[name].usage}
}

func (s *Session) help(_ []string) error {
	names := make([]string, 0, len(s.cmds))
	for name := range s.cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := newTable(s.out)
	for _, name := range names {
		c := s.cmds[name]
		fmt.Fprintf(tw, "%s %s\t%s\n", name, c.usage, c.help)
	}
	return tw.Flush()
}

func (s *Session) reset(_ []string) error {
	s.engine.Reset()
	_, err := fmt.Fprintln(s.out, "ledger reset")
	return err
}

func (s *Session) createAccount(args []string) error {
	if len(args) < 2 {
		return s.usage("account")
	}
	c, err := model.ParseClassification(args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")
	accountID, err := s.engine.CreateAccount(name, c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "created %s %q (%s)\n", accountID, name, c.Label())
	return err
}

func (s *Session) post(args []string) error {
	if len(args) < 3 {
		return s.usage("post")
	}
	tx, err := s.engine.PostInput(args[0], args[1], args[2], strings.Join(args[3:], " "))
	if err != nil {
		return err
	}
	return s.posted(tx)
}

func (s *Session) posted(tx model.Transaction) error {
	if err := writeTransaction(s.out, tx); err != nil {
		return err
	}
	if tx.Explanation != "" {
		if _, err := fmt.Fprintf(s.out, "  %s\n", tx.Explanation); err != nil {
			return err
		}
	}
	if s.opts.EchoTotals {
		return writeTotals(s.out, s.engine.Totals(), &tx, s.opts.ScaleFloor)
	}
	return nil
}

func (s *Session) scenario(args []string) error {
	if len(args) != 1 {
		return s.usage("scenario")
	}
	var list []scenarios.Scenario
	if strings.EqualFold(args[0], "all") {
		list = scenarios.Defaults()
	} else {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return s.usage("scenario")
		}
		sc, ok := scenarios.Find(n)
		if !ok {
			return fmt.Errorf("no scenario %d", n)
		}
		list = []scenarios.Scenario{sc}
	}

	for _, sc := range list {
		tx, err := sc.Apply(s.engine)
		if err != nil {
			return err
		}
		if err := s.posted(tx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) listScenarios(_ []string) error {
	tw := newTable(s.out)
	for _, sc := range scenarios.Defaults() {
		fmt.Fprintf(tw, "%d\t%s\tdr %s / cr %s\t%s\n", sc.ID, sc.Title, sc.Debit, sc.Credit, money(sc.Amount))
	}
	return tw.Flush()
}

func (s *Session) totals(_ []string) error {
	var last *model.Transaction
	if tx, ok := s.engine.Last(); ok {
		last = &tx
	}
	return writeTotals(s.out, s.engine.Totals(), last, s.opts.ScaleFloor)
}

func (s *Session) accounts(args []string) error {
	if len(args) == 0 {
		return writeAccounts(s.out, s.engine.Accounts())
	}
	c, err := model.ParseClassification(args[0])
	if err != nil {
		return err
	}
	return writeAccounts(s.out, s.engine.AccountsOf(c))
}

func (s *Session) show(args []string) error {
	if len(args) != 1 {
		return s.usage("show")
	}
	a, err := s.engine.Account(args[0])
	if err != nil {
		return err
	}
	return writeTAccount(s.out, a)
}

func (s *Session) history(_ []string) error {
	if s.opts.NewestFirst {
		return writeHistory(s.out, s.engine.RecentHistory())
	}
	return writeHistory(s.out, s.engine.History())
}

func (s *Session) check(_ []string) error {
	problems := s.engine.Verify()
	for _, p := range problems {
		fmt.Fprintln(s.out, p.Error())
	}
	totals := s.engine.Totals()
	if len(problems) > 0 || !totals.IsBalanced {
		return fmt.Errorf("ledger check failed: %d balance mismatches, balanced=%t", len(problems), totals.IsBalanced)
	}
	_, err := fmt.Fprintf(s.out, "ok: %d accounts, %d steps, equation balanced\n", len(s.engine.Accounts()), s.engine.Step())
	return err
}

func (s *Session) export(args []string) error {
	if len(args) != 1 {
		return s.usage("export")
	}
	switch args[0] {
	case "journal":
		return journal.WriteLegs(s.out, s.engine.History())
	case "chart":
		return accounts.WriteAccounts(s.out, s.engine.Accounts())
	default:
		return s.usage("export")
	}
}

func (s *Session) dump(_ []string) error {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(s.out, s.engine.Snapshot())
	return nil
}
