package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/ttfparse/internal/fontload"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/pterm/pterm"
)

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.tyse.fonts":    "Info",
		"trace.font.opentype": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (path or name of an installed font)")
	index := flag.Int("index", 0, "Index of font within a font collection")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)             // will set the correct level later
	pterm.Info.Println("Welcome to TrueType/OpenType CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname, *index); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font   *ot.Font
	file   *fontload.FontFile
	index  int
	repl   *readline.Instance
	coords []ot.F2Dot14 // normalized variation coordinates set by 'normalize'
}

func (intp *Intp) String() string {
	if intp == nil || intp.file == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( font=%s", intp.file.Path))
	if intp.file.IsCollection() {
		sb.WriteString(fmt.Sprintf("[%d/%d]", intp.index, intp.file.Count))
	}
	if len(intp.coords) > 0 {
		sb.WriteString(fmt.Sprintf(" coords=%v", intp.coords))
	}
	sb.WriteString(" )")
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a single command step, e.g. "outline:svg 36 400 100".
type Op struct {
	code   int
	args   []string
	format string
}

// Command is a sequence of steps, separated by ';' on the command line.
type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	TABLES
	INFO
	GLYPH
	METRICS
	OUTLINE
	NAMES
	AXES
	NORMALIZE
	KERN
	CLASS
	CHECK
)

var opMap = map[string]int{
	"quit":      QUIT,
	"help":      HELP,
	"tables":    TABLES,
	"info":      INFO,
	"glyph":     GLYPH,
	"metrics":   METRICS,
	"outline":   OUTLINE,
	"names":     NAMES,
	"axes":      AXES,
	"normalize": NORMALIZE,
	"kern":      KERN,
	"class":     CLASS,
	"check":     CHECK,
}

var opNames = []string{
	"quit",
	"help",
	"tables",
	"info",
	"glyph",
	"metrics",
	"outline",
	"names",
	"axes",
	"normalize",
	"kern",
	"class",
	"check",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].args = nil
		command.op[i].format = ""
	}
}

func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Split(line, ";")
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	for _, step := range steps {
		words := strings.Fields(step)
		if len(words) == 0 {
			continue
		}
		c := strings.Split(words[0], ":") // e.g.  "outline:svg" or "names:all" or "help"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		i := command.count
		command.count++
		command.op[i].code = code
		if code == QUIT {
			return &command, nil
		}
		command.op[i].format = getOptArg(c, 1)
		command.op[i].args = words[1:]
		if !ok {
			command.op[i].args = []string{c[0]}
		}
		if len(command.op[i].args) == 0 {
			tracer().Infof("%s", opNames[code])
		} else {
			tracer().Infof("%s: arguments %v", opNames[code], command.op[i].args)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:      quitOp,
	HELP:      helpOp,
	TABLES:    tablesOp,
	INFO:      infoOp,
	GLYPH:     glyphOp,
	METRICS:   metricsOp,
	OUTLINE:   outlineOp,
	NAMES:     namesOp,
	AXES:      axesOp,
	NORMALIZE: normalizeOp,
	KERN:      kernOp,
	CLASS:     classOp,
	CHECK:     checkOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

// loadFont loads a font given by path or by the name of an installed font.
func (intp *Intp) loadFont(fontname string, index int) (err error) {
	if fontname == "" {
		return errors.New("no font given; use flag -font")
	}
	if intp.file, err = fontload.Load(fontname); err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	tracer().Infof("loaded font file = %s", intp.file.Path)
	if intp.font, err = intp.file.Font(index); err != nil {
		tracer().Errorf("cannot decode font %s: %s", fontname, err)
		return err
	}
	intp.index = index
	intp.coords = nil
	pterm.Printf("font tables: %v\n", intp.font.TableTags())
	for _, e := range intp.font.CriticalErrors() {
		pterm.Warning.Println(e.Error())
	}
	return nil
}

// ----------------------------------------------------------------------

var ErrNoFont = errors.New("no font loaded")
var ErrMissingArg = errors.New("missing argument")

func (intp *Intp) checkFont() error {
	if intp.font == nil {
		return ErrNoFont
	}
	return nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return len(op.args) == 0
}

func (op *Op) arg(inx int) (string, bool) {
	if inx >= len(op.args) {
		return "", false
	}
	return op.args[inx], true
}
