package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_hermes() {
    local cur prev words cword
    _init_completion || return

    local commands="add rm remove update rename ls migrate path history keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    case "$prev" in
        -a|--alias)
            local aliases
            aliases=$(hermes ls -u -q 2>/dev/null | awk -F' [|] ' 'NR>6 {sub(/ +$/, "", $1); print $1}')
            COMPREPLY=($(compgen -W "$aliases" -- "$cur"))
            return
            ;;
        -f|--file)
            _filedir
            return
            ;;
        --format)
            COMPREPLY=($(compgen -W "table json" -- "$cur"))
            return
            ;;
    esac

    local cmd="${words[1]}"
    case "$cmd" in
        add|update)
            COMPREPLY=($(compgen -W "-a --alias -c --code -u --unencrypt -p --password -f --file -q --quiet" -- "$cur"))
            ;;
        rm|remove)
            COMPREPLY=($(compgen -W "-a --alias -f --file" -- "$cur"))
            ;;
        rename)
            COMPREPLY=($(compgen -W "-f --file" -- "$cur"))
            ;;
        ls)
            COMPREPLY=($(compgen -W "-a --alias -u --unencrypt -p --password --format -f --file -q --quiet" -- "$cur"))
            ;;
        migrate)
            COMPREPLY=($(compgen -W "--dry-run -f --file" -- "$cur"))
            ;;
        history)
            COMPREPLY=($(compgen -W "-n -f --file" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _hermes hermes
`

const zshCompletion = `#compdef hermes

_hermes() {
    local -a commands
    commands=(
        'add:Store a new TOTP secret'
        'rm:Remove a record'
        'remove:Remove a record'
        'update:Replace the secret of a record'
        'rename:Change the alias of a record'
        'ls:Show current codes'
        'migrate:Convert the codex to the JSON line format'
        'path:Show where the codex is stored'
        'history:Show recent changes'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    local -a common
    common=(
        '(-f --file)'{-f,--file}'[Codex file]:file:_files'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'hermes commands' commands
            ;;
        args)
            case "${words[2]}" in
                add|update)
                    _arguments $common \
                        '(-a --alias)'{-a,--alias}'[Alias]:alias:_hermes_aliases' \
                        '(-c --code)'{-c,--code}'[Base32 secret]:code:' \
                        '(-u --unencrypt)'{-u,--unencrypt}'[Store the secret unencrypted]' \
                        '(-p --password)'{-p,--password}'[Password]:password:' \
                        '(-q --quiet)'{-q,--quiet}'[No progress bar]'
                    ;;
                rm|remove)
                    _arguments $common '(-a --alias)'{-a,--alias}'[Alias]:alias:_hermes_aliases'
                    ;;
                rename)
                    _arguments $common '1:old alias:_hermes_aliases' '2:new alias:'
                    ;;
                ls)
                    _arguments $common \
                        '(-a --alias)'{-a,--alias}'[Filter by alias]:alias:_hermes_aliases' \
                        '(-u --unencrypt)'{-u,--unencrypt}'[Skip encrypted records]' \
                        '(-p --password)'{-p,--password}'[Password]:password:' \
                        '--format[Output format]:format:(table json)' \
                        '(-q --quiet)'{-q,--quiet}'[No progress bar]'
                    ;;
                migrate)
                    _arguments $common '--dry-run[Show the changes without writing]'
                    ;;
                history)
                    _arguments $common '-n[Number of entries]:count:'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'hermes commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_hermes_aliases() {
    local -a aliases
    aliases=(${(f)"$(hermes ls -u -q 2>/dev/null | awk -F' [|] ' 'NR>6 {sub(/ +$/, "", $1); print $1}')"})
    _describe -t aliases 'aliases' aliases
}

_hermes "$@"
`

const fishCompletion = `# hermes fish completions

set -l commands add rm remove update rename ls migrate path history keyring help completion

complete -c hermes -f

# Commands
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a add -d 'Store a new TOTP secret'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove a record'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a remove -d 'Remove a record'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a update -d 'Replace a secret'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a rename -d 'Change an alias'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a ls -d 'Show current codes'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a migrate -d 'Convert to JSON lines'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a path -d 'Show codex location'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a history -d 'Show recent changes'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c hermes -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# Common flags
complete -c hermes -n "__fish_seen_subcommand_from $commands" -s f -l file -r -F -d 'Codex file'

# Record flags
complete -c hermes -n "__fish_seen_subcommand_from add update rm remove ls" -s a -l alias -x -a "(hermes ls -u -q 2>/dev/null | awk -F' [|] ' 'NR>6 {sub(/ +\$/, \"\", \$1); print \$1}')" -d 'Alias'
complete -c hermes -n "__fish_seen_subcommand_from add update" -s c -l code -x -d 'Base32 secret'
complete -c hermes -n "__fish_seen_subcommand_from add update ls" -s u -l unencrypt -d 'Skip encryption'
complete -c hermes -n "__fish_seen_subcommand_from add update ls" -s p -l password -x -d 'Password'
complete -c hermes -n "__fish_seen_subcommand_from add update ls" -s q -l quiet -d 'No progress bar'
complete -c hermes -n "__fish_seen_subcommand_from ls" -l format -x -a "table json" -d 'Output format'
complete -c hermes -n "__fish_seen_subcommand_from migrate" -l dry-run -d 'Show changes only'
complete -c hermes -n "__fish_seen_subcommand_from history" -s n -x -d 'Number of entries'

# keyring subcommands
complete -c hermes -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c hermes -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c hermes -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
