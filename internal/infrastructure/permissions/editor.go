package permissions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// playerKey returns the existing key for player, matching case-insensitively,
// or player itself.
func (d *Document) playerKey(player string) string {
	for k := range d.Players {
		if strings.EqualFold(k, player) {
			return k
		}
	}
	return player
}

// GrantPlayer adds node patterns to a player's entry, creating it when needed.
// It returns the patterns that were not present yet.
func (d *Document) GrantPlayer(player string, nodes ...string) []string {
	k := d.playerKey(player)
	entry := d.Players[k]
	var added []string
	entry.Nodes, added = appendMissing(entry.Nodes, nodes)
	d.Players[k] = entry
	return added
}

// RevokePlayer removes node patterns from a player's entry. It returns the
// patterns that were removed.
func (d *Document) RevokePlayer(player string, nodes ...string) []string {
	k := d.playerKey(player)
	entry, ok := d.Players[k]
	if !ok {
		return nil
	}
	var removed []string
	entry.Nodes, removed = removeAll(entry.Nodes, nodes)
	d.Players[k] = entry
	return removed
}

// AddToGroup makes player a member of group. The group must exist.
func (d *Document) AddToGroup(player, group string) error {
	if _, ok := d.Groups[group]; !ok {
		return fmt.Errorf("unknown group %q", group)
	}
	k := d.playerKey(player)
	entry := d.Players[k]
	entry.Groups, _ = appendMissing(entry.Groups, []string{group})
	d.Players[k] = entry
	return nil
}

// GrantGroup adds node patterns to a group, creating it when needed.
func (d *Document) GrantGroup(group string, nodes ...string) []string {
	var added []string
	d.Groups[group], added = appendMissing(d.Groups[group], nodes)
	return added
}

// RevokeGroup removes node patterns from a group.
func (d *Document) RevokeGroup(group string, nodes ...string) []string {
	var removed []string
	d.Groups[group], removed = removeAll(d.Groups[group], nodes)
	return removed
}

// Validate checks the document the same way Load would: against the schema,
// then by compiling groups and rules.
func (d *Document) Validate() error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	_, err = compile(parsed)
	return err
}

func appendMissing(list, values []string) ([]string, []string) {
	var added []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || slices.Contains(list, v) {
			continue
		}
		list = append(list, v)
		added = append(added, v)
	}
	return list, added
}

func removeAll(list, values []string) ([]string, []string) {
	var removed []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if i := slices.Index(list, v); i >= 0 {
			list = slices.Delete(list, i, i+1)
			removed = append(removed, v)
		}
	}
	return list, removed
}
