// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SchemaFileNotFoundId Id = iota + 1
	SchemaInvalidId
	ArgumentsRejectedId
	UnknownTypeId
	EnvFileFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the Markdown guidance with the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	schemaFileNotFoundIssue = &Issue{
		id: SchemaFileNotFoundId,
		mdMsg: `
# Schema file not found!

Every command needs a schema file describing its options.

## Things you can try:
- Check the path passed to ` + "`-s`/`--schema`" + `
- Schema files are picked by extension: ` + "`.cue`, `.json`, `.toml` or `.hcl`" + `

## Example schema (sum.cue):
~~~cue
brief:         "Add numbers."
defaultOption: "number"
options: number: {alias: "n", type: "number", multiple: true}
~~~`,
	}

	schemaInvalidIssue = &Issue{
		id: SchemaInvalidId,
		mdMsg: `
# The command schema is not valid!

The schema could not be normalized, so no argument was looked at.

## Common causes:
- Two options share the same alias letter
- An option is both ` + "`required`" + ` and has a ` + "`defaultValue`" + `
- ` + "`type`" + ` names a tag that is not registered
- ` + "`defaultOption`" + ` names an option that is not declared

## Things you can try:
~~~
$ argweave validate -s ./schema.cue
$ argweave types
~~~`,
	}

	argumentsRejectedIssue = &Issue{
		id: ArgumentsRejectedId,
		mdMsg: `
# Some arguments were rejected!

Every problem is listed above. Options that did resolve are still reported.

## Things you can try:
- Print the usage of the command:
~~~
$ argweave usage -s ./schema.cue
~~~
- See how the arguments were split into options:
~~~
$ argweave tokenize -s ./schema.cue -- <args>
~~~`,
	}

	unknownTypeIssue = &Issue{
		id: UnknownTypeId,
		mdMsg: `
# Unknown option type!

The built-in types are ` + "`boolean`, `number`, `string`, `date`, `array` and `object`" + `.
Applications can register more types before resolving.

## Things you can try:
~~~
$ argweave types
~~~`,
	}

	envFileFailedIssue = &Issue{
		id: EnvFileFailedId,
		mdMsg: `
# Env file could not be read!

Env files hold ` + "`KEY=value`" + ` lines or a JSON object of strings and lists.

## Things you can try:
- Append ` + "`?`" + ` to the path to make the file optional: ` + "`--env-file .env?`" + `
- Quote values that contain ` + "`#`" + ` or spaces`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

## Things you can try:
- Print the effective configuration:
~~~
$ argweave config show
~~~
- Write a fresh default file:
~~~
$ argweave config init
~~~`,
	}

	issues = map[Id]*Issue{
		schemaFileNotFoundIssue.Id(): schemaFileNotFoundIssue,
		schemaInvalidIssue.Id():      schemaInvalidIssue,
		argumentsRejectedIssue.Id():  argumentsRejectedIssue,
		unknownTypeIssue.Id():        unknownTypeIssue,
		envFileFailedIssue.Id():      envFileFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
