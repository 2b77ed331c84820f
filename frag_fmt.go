package sqlfrag

import (
	"fmt"
	r "reflect"
	"strings"
	"unicode/utf8"
)

const (
	fmtPercent = '%'
	fmtStar    = '*'
	fmtDot     = '.'
	fmtIndex   = '['
	fmtFlags   = `+-# 0`
	fmtVerbs   = `vTtbcdoOqxXUeEfFgGsp`

	// Verbs valid for strings and byte slices.
	fmtStringVerbs = `vsqxXT`

	// Same threshold as "fmt": larger widths and precisions are rejected.
	fmtNumMax = 1e6
)

/*
Parsed "fmt" directive such as "%-8.3f". Each `*` in width or precision
consumes an argument before the value, width first.
*/
type fmtDirective struct {
	Text      string
	Verb      rune
	WidthStar bool
	PrecStar  bool
}

// Number of `*` in the directive.
func (self fmtDirective) Stars() (out int) {
	if self.WidthStar {
		out++
	}
	if self.PrecStar {
		out++
	}
	return
}

// Number of arguments consumed by the directive.
func (self fmtDirective) Argc() int { return self.Stars() + 1 }

// Same directive with the verb replaced by "v".
func (self fmtDirective) plain() string {
	return self.Text[:len(self.Text)-utf8.RuneLen(self.Verb)] + `v`
}

/*
Renders the template the same way as `fmt.Sprintf`, but validates the template
and every argument first, and returns an error where "fmt" would have written
a "%!" marker into the output.
*/
func render(src string, args []any, while string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(src))
	argInd := 0

	for len(src) > 0 {
		ind := strings.IndexByte(src, fmtPercent)
		if ind < 0 {
			buf.WriteString(src)
			break
		}
		buf.WriteString(src[:ind])
		src = src[ind:]

		if strings.HasPrefix(src, `%%`) {
			buf.WriteByte(fmtPercent)
			src = src[2:]
			continue
		}

		dir, err := scanDirective(src)
		if err != nil {
			return ``, ErrFormat.while(while).because(err)
		}
		src = src[len(dir.Text):]

		if argInd+dir.Argc() > len(args) {
			return ``, ErrFormat.while(while).becausef(
				`missing argument for directive %q: got %d arguments`, dir.Text, len(args),
			)
		}

		dirArgs := args[argInd : argInd+dir.Argc()]
		argInd += dir.Argc()

		err = validDirectiveArgs(dir, dirArgs, argInd-len(dirArgs))
		if err != nil {
			return ``, ErrFormat.while(while).because(err)
		}

		out := fmt.Sprintf(dir.Text, dirArgs...)
		if hasBadMarker(dir, out, dirArgs) {
			return ``, ErrFormat.while(while).becausef(
				`directive %q can't render argument of type %v: %q`,
				dir.Text, r.TypeOf(dirArgs[len(dirArgs)-1]), out,
			)
		}
		buf.WriteString(out)
	}

	if argInd < len(args) {
		return ``, ErrFormat.while(while).becausef(
			`too many arguments: template uses %d, got %d`, argInd, len(args),
		)
	}
	return buf.String(), nil
}

// The input must begin with "%". Doesn't handle "%%".
func scanDirective(src string) (fmtDirective, error) {
	var out fmtDirective
	ind := 1

	for ind < len(src) && strings.IndexByte(fmtFlags, src[ind]) >= 0 {
		ind++
	}

	ind, star, err := scanDirectiveNum(src, ind, `width`)
	if err != nil {
		return out, err
	}
	out.WidthStar = star

	if ind < len(src) && src[ind] == fmtDot {
		ind, star, err = scanDirectiveNum(src, ind+1, `precision`)
		if err != nil {
			return out, err
		}
		out.PrecStar = star
	}

	if ind >= len(src) {
		return out, errf(`missing verb at end of template: %q`, src)
	}

	if src[ind] == fmtIndex {
		return out, errf(`explicit argument indexes are not supported: %q`, src[:ind+1])
	}

	verb, size := utf8.DecodeRuneInString(src[ind:])
	if !strings.ContainsRune(fmtVerbs, verb) {
		return out, errf(`unknown verb %q in %q`, verb, src[:ind+size])
	}

	out.Text = src[:ind+size]
	out.Verb = verb
	return out, nil
}

func scanDirectiveNum(src string, ind int, name string) (int, bool, error) {
	if ind < len(src) && src[ind] == fmtStar {
		return ind + 1, true, nil
	}

	num := 0
	for ind < len(src) && charsetDigitDec.has(src[ind]) {
		num = num*10 + int(src[ind]-'0')
		if num > fmtNumMax {
			return ind, false, errf(`%v exceeds %d in %q`, name, int(fmtNumMax), src[:ind+1])
		}
		ind++
	}
	return ind, false, nil
}

func validDirectiveArgs(dir fmtDirective, args []any, offset int) error {
	stars := dir.Stars()

	for ind, arg := range args[:stars] {
		num, ok := starArg(arg)
		if !ok {
			return errf(
				`directive %q expects an integer within %d for "*" at argument %d, got %v`,
				dir.Text, int(fmtNumMax), offset+ind, r.TypeOf(arg),
			)
		}

		// Negative width means left alignment, negative precision is invalid.
		if dir.PrecStar && ind == stars-1 && num < 0 {
			return errf(
				`directive %q expects a non-negative precision for "*" at argument %d, got %d`,
				dir.Text, offset+ind, num,
			)
		}
	}

	arg := args[stars]
	if isNilArg(arg) {
		return errf(
			`directive %q got nil argument %v at index %d`,
			dir.Text, r.TypeOf(arg), offset+stars,
		)
	}
	return nil
}

/*
"fmt" reports a verb/argument mismatch or a panicking method by writing
"%!<verb>(" into the output, and invalid "*" arguments by writing
"%!(BADWIDTH)" or "%!(BADPREC)". Plain strings are judged by the verb alone,
because their content may contain the same text.
*/
func hasBadMarker(dir fmtDirective, out string, args []any) bool {
	stars := dir.Stars()
	if stars > 0 {
		stub := fmt.Sprintf(dir.plain(), append(args[:stars:stars], 0)...)
		if strings.Contains(stub, `%!(BAD`) {
			return true
		}
	}

	arg := args[stars]
	if isPlainStringArg(arg) {
		return !strings.ContainsRune(fmtStringVerbs, dir.Verb)
	}
	if isPlainBytesArg(arg) && strings.ContainsRune(fmtStringVerbs, dir.Verb) {
		return false
	}
	return strings.Contains(out, `%!`+string(dir.Verb)+`(`)
}
