package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/service/security"
)

// SeedData is the YAML fixture applied by Seed. Entities are matched by
// name; anything that already exists is left untouched.
type SeedData struct {
	Repositories []SeedRepository `yaml:"repositories"`
	Namespaces   []string         `yaml:"namespaces"`
	Groups       []SeedGroup      `yaml:"groups"`
	Principals   []SeedPrincipal  `yaml:"principals"`
	Synclists    []SeedSynclist   `yaml:"synclists"`
}

// SeedRepository is a content repository fixture.
type SeedRepository struct {
	Name string `yaml:"name"`
}

// SeedGroup is a group fixture.
type SeedGroup struct {
	Name string `yaml:"name"`
}

// SeedPrincipal is a principal fixture with its memberships and API keys.
type SeedPrincipal struct {
	Name    string       `yaml:"name"`
	Admin   bool         `yaml:"admin"`
	Groups  []string     `yaml:"groups"`
	APIKeys []SeedAPIKey `yaml:"api_keys"`
}

// SeedAPIKey is a raw API key registered for a principal.
type SeedAPIKey struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
}

// SeedSynclist is a synclist fixture. Repositories and groups are referenced
// by name.
type SeedSynclist struct {
	Name               string              `yaml:"name"`
	Repository         string              `yaml:"repository"`
	UpstreamRepository string              `yaml:"upstream_repository"`
	Policy             string              `yaml:"policy"`
	Collections        []string            `yaml:"collections"`
	Namespaces         []string            `yaml:"namespaces"`
	Groups             []SeedSynclistGroup `yaml:"groups"`
}

// SeedSynclistGroup grants a group permissions on a seeded synclist.
type SeedSynclistGroup struct {
	Name        string          `yaml:"name"`
	Permissions SeedPermissions `yaml:"permissions"`
}

// SeedPermissions accepts either the scalar "owner" or an explicit list of
// object permissions.
type SeedPermissions []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *SeedPermissions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value != "owner" {
			return fmt.Errorf("line %d: unknown permission preset %q", node.Line, node.Value)
		}
		*p = domain.OwnerPermissions()
		return nil
	}
	var perms []string
	if err := node.Decode(&perms); err != nil {
		return err
	}
	*p = perms
	return nil
}

// LoadSeedFile parses a YAML seed fixture.
func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// Seed applies data to the metastore. It is idempotent: running it twice
// creates nothing the second time.
func Seed(ctx context.Context, repos Repos, data *SeedData, logger *slog.Logger) error {
	logger = logger.With("component", "seed")

	repoIDs := make(map[string]string, len(data.Repositories))
	for _, r := range data.Repositories {
		existing, err := repos.Content.GetRepositoryByName(ctx, r.Name)
		if err == nil {
			repoIDs[r.Name] = existing.ID
			continue
		}
		if !isNotFound(err) {
			return fmt.Errorf("lookup repository %q: %w", r.Name, err)
		}
		created, err := repos.Content.CreateRepository(ctx, &domain.Repository{Name: r.Name})
		if err != nil {
			return fmt.Errorf("create repository %q: %w", r.Name, err)
		}
		repoIDs[r.Name] = created.ID
		logger.Info("seeded repository", "name", r.Name, "id", created.ID)
	}

	for _, ns := range data.Namespaces {
		if _, err := repos.Content.CreateNamespace(ctx, ns); err != nil && !isConflict(err) {
			return fmt.Errorf("create namespace %q: %w", ns, err)
		}
	}

	groupIDs := make(map[string]int64, len(data.Groups))
	for _, g := range data.Groups {
		id, err := ensureGroup(ctx, repos, g.Name)
		if err != nil {
			return err
		}
		groupIDs[g.Name] = id
	}

	for _, p := range data.Principals {
		if err := seedPrincipal(ctx, repos, p, groupIDs); err != nil {
			return err
		}
	}

	for _, s := range data.Synclists {
		created, err := seedSynclist(ctx, repos, s, repoIDs, groupIDs)
		if err != nil {
			return err
		}
		if created {
			logger.Info("seeded synclist", "name", s.Name)
		}
	}
	return nil
}

func ensureGroup(ctx context.Context, repos Repos, name string) (int64, error) {
	existing, err := repos.Groups.GetByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("lookup group %q: %w", name, err)
	}
	created, err := repos.Groups.Create(ctx, &domain.Group{Name: name})
	if err != nil {
		return 0, fmt.Errorf("create group %q: %w", name, err)
	}
	return created.ID, nil
}

func seedPrincipal(ctx context.Context, repos Repos, sp SeedPrincipal, groupIDs map[string]int64) error {
	p, err := repos.Principals.GetByName(ctx, sp.Name)
	if err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("lookup principal %q: %w", sp.Name, err)
		}
		p, err = repos.Principals.Create(ctx, &domain.Principal{Name: sp.Name, IsAdmin: sp.Admin})
		if err != nil {
			return fmt.Errorf("create principal %q: %w", sp.Name, err)
		}
	}

	for _, gname := range sp.Groups {
		gid, ok := groupIDs[gname]
		if !ok {
			if gid, err = ensureGroup(ctx, repos, gname); err != nil {
				return err
			}
			groupIDs[gname] = gid
		}
		if err := repos.Groups.AddMember(ctx, gid, p.ID); err != nil {
			return fmt.Errorf("add %q to group %q: %w", sp.Name, gname, err)
		}
	}

	for _, k := range sp.APIKeys {
		if len(k.Key) < 16 {
			return fmt.Errorf("api key %q for %q must be at least 16 characters", k.Name, sp.Name)
		}
		_, err := repos.APIKeys.Create(ctx, &domain.APIKey{
			PrincipalID: p.ID,
			Name:        k.Name,
			KeyHash:     security.HashAPIKey(k.Key),
		})
		if err != nil && !isConflict(err) {
			return fmt.Errorf("create api key %q for %q: %w", k.Name, sp.Name, err)
		}
	}
	return nil
}

func seedSynclist(ctx context.Context, repos Repos, ss SeedSynclist, repoIDs map[string]string, groupIDs map[string]int64) (bool, error) {
	repoID, ok := repoIDs[ss.Repository]
	if !ok {
		return false, fmt.Errorf("synclist %q: unknown repository %q", ss.Name, ss.Repository)
	}
	var upstream *string
	if ss.UpstreamRepository != "" {
		id, ok := repoIDs[ss.UpstreamRepository]
		if !ok {
			return false, fmt.Errorf("synclist %q: unknown upstream repository %q", ss.Name, ss.UpstreamRepository)
		}
		upstream = &id
	}

	req := domain.CreateSynclistRequest{
		Name:               ss.Name,
		Repository:         repoID,
		UpstreamRepository: upstream,
		Policy:             domain.SynclistPolicy(ss.Policy),
		Collections:        ss.Collections,
		Namespaces:         ss.Namespaces,
	}
	for _, g := range ss.Groups {
		gid, ok := groupIDs[g.Name]
		if !ok {
			return false, fmt.Errorf("synclist %q: unknown group %q", ss.Name, g.Name)
		}
		req.Groups = append(req.Groups, domain.GroupGrant{GroupID: gid, Permissions: g.Permissions})
	}
	if err := req.Validate(); err != nil {
		return false, fmt.Errorf("synclist %q: %w", ss.Name, err)
	}

	s := &domain.Synclist{
		Name:               req.Name,
		Repository:         req.Repository,
		UpstreamRepository: req.UpstreamRepository,
		Policy:             req.Policy,
		Collections:        req.Collections,
		Namespaces:         domain.NormalizeNamespaces(req.Namespaces),
	}
	for _, g := range req.Groups {
		s.Groups = append(s.Groups, domain.GroupPermissions{
			GroupID:     g.GroupID,
			Permissions: domain.NormalizePermissions(g.Permissions),
		})
	}
	if _, err := repos.Synclists.Create(ctx, s); err != nil {
		if isConflict(err) {
			return false, nil
		}
		return false, fmt.Errorf("create synclist %q: %w", ss.Name, err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

func isConflict(err error) bool {
	var c *domain.ConflictError
	return errors.As(err, &c)
}
