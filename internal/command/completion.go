package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/statkit/dsctl/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for dsctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_dsctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "setup activate-env deactivate-env check-venv python-version clean build update-deps jupyter install-aws-cli check-aws-credentials sync-data-to-s3 sync-data-from-s3 pre-commit lint format check-types code-quality test test-verbose test-coverage test-coverage-html publish generate completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --dir -d --output -o --tldr"

    case "$cmd" in
        sync-data-to-s3|sync-data-from-s3)
            local opts="$common --dry-run"
            ;;
        generate)
            local opts="$common --corpus --length --order --prefix --seed"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--dir" || "$prev" == "-d" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--corpus" ]]; then
        COMPREPLY=( $(compgen -o filenames -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _dsctl dsctl
`

const zshCompletionScript = `#compdef dsctl

_dsctl() {
  local -a cmds
  cmds=(
    'setup:install dependencies and create the virtual environment'
    'activate-env:print how to activate the virtual environment'
    'deactivate-env:print how to deactivate the virtual environment'
    'check-venv:show the state of the virtual environment'
    'python-version:show the interpreter version'
    'clean:remove build and test artifacts'
    'build:build source and wheel distributions'
    'update-deps:update dependencies'
    'jupyter:start a notebook server'
    'install-aws-cli:install the AWS CLI if missing'
    'check-aws-credentials:verify AWS credentials'
    'sync-data-to-s3:upload the data directory'
    'sync-data-from-s3:download the data directory'
    'pre-commit:run all pre-commit hooks'
    'lint:run the linter'
    'format:format the source tree'
    'check-types:run the static type checker'
    'code-quality:format, lint, and type-check'
    'test:run the test suite'
    'test-verbose:run tests verbosely'
    'test-coverage:run tests with coverage'
    'test-coverage-html:run tests with an HTML coverage report'
    'publish:publish the package (disabled)'
    'generate:generate text from a Markov chain'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-d --dir)'{-d,--dir}'[project root directory]:dir:_directories'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'dsctl commands' cmds
    return
  fi

  case $words[2] in
    sync-data-to-s3|sync-data-from-s3)
      _arguments -C \
        $common \
        '--dry-run[plan transfers without copying]'
      ;;
    generate)
      _arguments -C \
        $common \
        '--corpus[training corpus]:file:_files' \
        '--length[tokens to generate]:length' \
        '--order[n-gram order]:order' \
        '--prefix[starting n-gram]:prefix' \
        '--seed[random seed]:seed'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _dsctl dsctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: dsctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "dsctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
