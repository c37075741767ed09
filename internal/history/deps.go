package history

import "github.com/keyframe-studio/keyframe/internal/command"

// Targets returns the element IDs a command touches. Commands that touch
// several elements report them through command.Targeter; everything else is
// keyed by its ElementID. Checkpoints touch nothing.
func Targets(cmd command.Command) []string {
	if t, ok := cmd.(command.Targeter); ok {
		return t.Targets()
	}
	if id := cmd.Info().ElementID; id != "" {
		return []string{id}
	}
	return nil
}

// DependsOn reports whether later and target touch a common element.
func DependsOn(later, target command.Command) bool {
	targets := Targets(target)
	if len(targets) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(targets))
	for _, id := range targets {
		set[id] = struct{}{}
	}
	for _, id := range Targets(later) {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// Dependents returns the commands above stack[index] that depend on it.
func Dependents(stack []command.Command, index int) []command.Command {
	if index < 0 || index >= len(stack) {
		return nil
	}
	var out []command.Command
	for _, later := range stack[index+1:] {
		if DependsOn(later, stack[index]) {
			out = append(out, later)
		}
	}
	return out
}

// related returns every other command in stack sharing an element with
// stack[index], in stack order.
func related(stack []command.Command, index int) []command.Command {
	var out []command.Command
	for i, other := range stack {
		if i != index && DependsOn(other, stack[index]) {
			out = append(out, other)
		}
	}
	return out
}
