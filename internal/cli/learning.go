package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/content"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/google/subcommands"
)

type modulesCmd struct{ rt *Runtime }

func (*modulesCmd) Name() string     { return "modules" }
func (*modulesCmd) Synopsis() string { return "list learning modules or read one" }
func (*modulesCmd) Usage() string {
	return `paisa modules [module-id]

  Without an id lists every module with its progress; with an id prints its lessons.
`
}
func (*modulesCmd) SetFlags(_ *flag.FlagSet) {}

func (c *modulesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	if f.NArg() == 0 {
		c.rt.printMarkdown(ModulesMarkdown(ws.Learning.Modules(), ws.Learning.Summary()))
		return subcommands.ExitSuccess
	}
	m, ok := ws.Learning.Module(f.Arg(0))
	if !ok {
		return c.rt.fail(fmt.Errorf("module %q not found", f.Arg(0)))
	}
	c.rt.printMarkdown(ModuleMarkdown(m))
	return subcommands.ExitSuccess
}

type quizCmd struct {
	rt     *Runtime
	retake bool
}

func (*quizCmd) Name() string     { return "quiz" }
func (*quizCmd) Synopsis() string { return "take a module's quiz" }
func (*quizCmd) Usage() string {
	return `paisa quiz [-retake] <module-id>

  Asks each question in turn; answer with the option number. A submitted quiz
  must be retaken (which resets its progress) before answering again.
`
}

func (c *quizCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.retake, "retake", false, "reset the module and start over")
}

func (c *quizCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.rt.usage("expected exactly one module id")
	}
	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	id := f.Arg(0)

	if c.retake {
		if _, err := ws.Learning.Retake(ctx, id); err != nil {
			return c.rt.fail(err)
		}
	}
	m, ok := ws.Learning.Module(id)
	if !ok {
		return c.rt.fail(fmt.Errorf("module %q not found", id))
	}
	if m.Attempt == models.AttemptSubmitted {
		return c.rt.fail(errors.New("quiz already submitted, run again with -retake"))
	}

	in := bufio.NewScanner(c.rt.In)
	for i, q := range m.Quiz {
		option, ok := c.ask(in, i+1, q)
		if !ok {
			return c.rt.fail(errors.New("quiz abandoned, answers so far are saved"))
		}
		if err := ws.Learning.Answer(ctx, id, q.ID, option); err != nil {
			return c.rt.fail(err)
		}
	}

	res, err := ws.Learning.Submit(ctx, id)
	if err != nil {
		return c.rt.fail(err)
	}
	c.rt.printMarkdown(ResultMarkdown(m, res))
	return subcommands.ExitSuccess
}

// ask prompts until a valid option number is entered or input ends.
func (c *quizCmd) ask(in *bufio.Scanner, n int, q models.Question) (string, bool) {
	fmt.Fprintf(c.rt.Out, "\n%d. %s\n", n, q.Text)
	for i, o := range q.Options {
		fmt.Fprintf(c.rt.Out, "   %d) %s\n", i+1, o)
	}
	for {
		fmt.Fprint(c.rt.Out, "> ")
		if !in.Scan() {
			return "", false
		}
		choice, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && choice >= 1 && choice <= len(q.Options) {
			return q.Options[choice-1], true
		}
		fmt.Fprintf(c.rt.Out, "Enter a number from 1 to %d\n", len(q.Options))
	}
}

type explainCmd struct{ rt *Runtime }

func (*explainCmd) Name() string { return "explain" }
func (*explainCmd) Synopsis() string {
	return "generate an India-centric example of a financial concept"
}
func (*explainCmd) Usage() string {
	return `paisa explain <concept>

  Requires ai.api_key to be configured.
`
}
func (*explainCmd) SetFlags(_ *flag.FlagSet) {}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := content.NewRequest(strings.Join(f.Args(), " "))
	if err != nil {
		return c.rt.usage(err.Error())
	}
	a, err := c.rt.App(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	if a.Content == nil {
		return c.rt.fail(errors.New("content generation is disabled, set ai.api_key (PAISA_AI_API_KEY)"))
	}
	out, err := a.Content.Generate(ctx, req)
	if err != nil {
		return c.rt.fail(err)
	}
	c.rt.printMarkdown(ContentMarkdown(req.Concept(), out))
	return subcommands.ExitSuccess
}
