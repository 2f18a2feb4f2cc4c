package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recon-cli/internal/logger"
)

// Ensure Scanner implements the interface.
var _ driving.ScanService = (*Scanner)(nil)

// Scanner drives the collection pipeline for one candidate at a time.
// The session is mutated only by the goroutine running Scan; the snapshot
// writer receives deep copies between mutations.
type Scanner struct {
	client   driven.PlatformClient
	writer   driven.SnapshotWriter
	exporter driven.ReportExporter
	cfg      domain.ScanConfig
	scorer   *Scorer
	now      func() time.Time
	newID    func() string

	// Status tracking
	mu     sync.RWMutex
	active map[string]*driving.ScanStatus
}

// NewScanner creates a scanner. writer and exporter may be nil.
func NewScanner(
	client driven.PlatformClient,
	writer driven.SnapshotWriter,
	exporter driven.ReportExporter,
	cfg domain.ScanConfig,
) *Scanner {
	return &Scanner{
		client:   client,
		writer:   writer,
		exporter: exporter,
		cfg:      cfg,
		scorer:   NewScorer(),
		now:      time.Now,
		newID:    uuid.NewString,
		active:   make(map[string]*driving.ScanStatus),
	}
}

// Config returns the scan configuration.
func (s *Scanner) Config() domain.ScanConfig {
	return s.cfg
}

// Plan lists the candidate's repositories, selects the scan subset and sizes
// it against the remaining quota.
func (s *Scanner) Plan(ctx context.Context, target string) (*driving.ScanPlan, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	session := domain.NewScanSession("", target, domain.PlatformGitHub, s.now())
	plan, err := s.plan(ctx, session)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Scan runs the full pipeline for target.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *Scanner) Scan(ctx context.Context, target string) (*domain.ScanSession, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	session := domain.NewScanSession(s.newID(), target, domain.PlatformGitHub, s.now())
	s.setStatus(target, &driving.ScanStatus{Target: target, Running: true})
	defer s.clearStatus(target)

	// 1. Profile
	logger.Section("Profile")
	profile, err := s.client.Profile(ctx, target)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, target)
	case errors.Is(err, domain.ErrRateLimited):
		session.Progress.RateLimited = true
		s.warn(session, "profile: rate limited")
	case err != nil:
		s.warn(session, fmt.Sprintf("profile: %v", err))
	default:
		session.Profile = profile
	}
	s.save(ctx, session)

	// 2. Organizations and keys
	orgs := collectInto(ctx, s, session, "organizations",
		func(ctx context.Context, page int) domain.PageResult[domain.Organization] {
			return s.client.Organizations(ctx, target, page)
		},
		CollectOptions[domain.Organization]{Key: func(o domain.Organization) string { return o.Login }})
	session.Organizations = orgs.Items
	s.save(ctx, session)

	keys := collectInto(ctx, s, session, "keys",
		func(ctx context.Context, page int) domain.PageResult[domain.SSHKey] {
			return s.client.Keys(ctx, target, page)
		},
		CollectOptions[domain.SSHKey]{Key: func(k domain.SSHKey) string { return fmt.Sprint(k.ID) }})
	session.Keys = keys.Items
	s.save(ctx, session)

	// 3. Repository selection
	logger.Section("Repositories")
	plan, err := s.plan(ctx, session)
	if err != nil {
		return nil, err
	}
	s.updateStatus(target, func(st *driving.ScanStatus) { st.ReposSelected = len(plan.Selected) })
	s.save(ctx, session)

	// 4. Account-wide sources
	if s.cfg.DeepMode {
		logger.Section("Gists")
		s.collectGists(ctx, session)
		s.save(ctx, session)

		logger.Section("Events")
		s.collectEvents(ctx, session)
		s.save(ctx, session)
	}

	// 5. Per-repository collection, in priority order
	logger.Section("Commits")
	for i := range session.Repositories {
		if ctx.Err() != nil {
			s.warn(session, fmt.Sprintf("scan cancelled after %d repositories", session.Progress.ReposScanned))
			break
		}
		repo := session.Repositories[i]
		s.scanRepository(ctx, session, repo)
		session.Progress.ReposScanned++
		s.updateStatus(target, func(st *driving.ScanStatus) {
			st.ReposScanned = session.Progress.ReposScanned
			st.Identities = session.Identities.Len()
		})
		s.save(ctx, session)
	}

	// 6. Network
	if s.cfg.DeepMode {
		logger.Section("Network")
		s.collectNetwork(ctx, session)
		s.save(ctx, session)
	}

	completed := s.now()
	session.CompletedAt = &completed
	s.save(ctx, session)

	logger.Info("Scan complete: %d repositories, %d commits, %d identities",
		session.Progress.ReposScanned, session.Progress.CommitsScanned, session.Identities.Len())
	return session, nil
}

// Status returns scan status for a target.
func (s *Scanner) Status(_ context.Context, target string) (*driving.ScanStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.active[target]; ok {
		// Return a copy to avoid race conditions
		cp := *status
		return &cp, nil
	}
	return &driving.ScanStatus{Target: target}, nil
}

// Report projects the session into the externally visible report using the
// configured exclusion filters.
func (s *Scanner) Report(session *domain.ScanSession) domain.Report {
	snap := session.Snapshot()
	identities, excluded := BuildReport(snap.Identities, ReportOptions{
		ExcludeNoreply:    s.cfg.SkipNoreply,
		ExcludeDisposable: s.cfg.SkipDisposable,
	})
	return domain.Report{
		Session:     snap,
		Identities:  identities,
		Excluded:    excluded,
		GeneratedAt: s.now(),
	}
}

// Export writes the final report in every configured format and returns the
// written paths.
func (s *Scanner) Export(ctx context.Context, session *domain.ScanSession) ([]string, error) {
	if s.exporter == nil {
		return nil, nil
	}
	formats := s.cfg.Formats
	if len(formats) == 0 {
		formats = []domain.ExportFormat{domain.FormatJSON}
	}

	report := s.Report(session)
	var paths []string
	var errs []error
	for _, f := range formats {
		written, err := s.exporter.Export(ctx, report, f, session.Target, session.Platform)
		if err != nil {
			errs = append(errs, fmt.Errorf("export %s: %w", f, err))
			continue
		}
		paths = append(paths, written...)
	}
	return paths, errors.Join(errs...)
}

// plan lists repositories, applies the filters and, in smart mode, caps the
// selection to what the quota allows. It records the result on session.
func (s *Scanner) plan(ctx context.Context, session *domain.ScanSession) (*driving.ScanPlan, error) {
	target := session.Target
	opts := PlanOptionsFromConfig(s.cfg)

	repos := collectInto(ctx, s, session, "repositories",
		func(ctx context.Context, page int) domain.PageResult[domain.Repository] {
			return s.client.Repositories(ctx, target, page)
		},
		CollectOptions[domain.Repository]{Key: func(r domain.Repository) string { return r.Name }})
	if repos.Outcome == domain.OutcomeNotFound {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, target)
	}

	selected := s.scorer.FilterRepos(repos.Items, FilterOptionsFromConfig(s.cfg))

	quota := s.quota(ctx)
	remaining := EstimateCalls(len(selected), opts)
	if quota != nil {
		remaining = quota.Remaining
	}
	budget := PlanStrategy(len(selected), remaining, opts)

	if !budget.CanComplete {
		logger.Warn("estimated %d calls for %d repositories, %d remaining",
			budget.EstimatedCalls, len(selected), budget.Remaining)
		if s.cfg.SmartMode && budget.SafeRepoCount < len(selected) {
			selected = selected[:budget.SafeRepoCount]
			s.warn(session, fmt.Sprintf("smart mode: limited scan to %d repositories", len(selected)))
		}
	}

	session.Repositories = selected
	session.Budget = &budget
	session.Progress.ReposTotal = len(repos.Items)
	session.Progress.ReposSelected = len(selected)

	logger.Info("Selected %d of %d repositories", len(selected), len(repos.Items))

	return &driving.ScanPlan{
		Target:      target,
		Quota:       quota,
		Budget:      budget,
		Total:       len(repos.Items),
		Selected:    selected,
		Partial:     repos.Partial(),
		ListOutcome: repos.Outcome,
	}, nil
}

func (s *Scanner) quota(ctx context.Context) *domain.Quota {
	q, err := s.client.RateLimit(ctx)
	if err != nil {
		logger.Warn("rate limit status unavailable: %v", err)
		return nil
	}
	return q
}

// scanRepository collects commits and, in deep mode, the README and the
// anonymous contributors of repo.
func (s *Scanner) scanRepository(ctx context.Context, session *domain.ScanSession, repo domain.Repository) {
	owner := repo.Owner
	if owner == "" {
		owner = session.Target
	}

	skip := func(c domain.Commit) bool { return !c.HasAuthorIdentity() || c.AuthorLogin == "" }
	if s.cfg.DeepMode {
		skip = func(c domain.Commit) bool { return !c.HasAuthorIdentity() }
	}

	commits := collectInto(ctx, s, session, "commits "+repo.Name,
		func(ctx context.Context, page int) domain.PageResult[domain.Commit] {
			return s.client.Commits(ctx, owner, repo.Name, page)
		},
		CollectOptions[domain.Commit]{Key: func(c domain.Commit) string { return c.SHA }, Skip: skip})

	for _, c := range commits.Items {
		Merge(session.Identities, domain.Observation{
			Email: c.AuthorEmail, Name: c.AuthorName, Source: domain.SourceCommit, Repository: repo.Name,
		})
		if c.CommitterEmail != "" && c.CommitterEmail != c.AuthorEmail {
			Merge(session.Identities, domain.Observation{
				Email: c.CommitterEmail, Name: c.CommitterName, Source: domain.SourceCommit, Repository: repo.Name,
			})
		}
		if s.cfg.DeepMode {
			s.addFinding(session, repo.Name, "commit:"+shortSHA(c.SHA), AnalyzeText(c.Message))
		}
	}
	session.Progress.CommitsScanned += len(commits.Items)
	logger.Debug("%s: %d commits, %d identities so far", repo.Name, len(commits.Items), session.Identities.Len())

	if !s.cfg.DeepMode {
		return
	}

	readme, err := s.client.Readme(ctx, owner, repo.Name)
	switch {
	case err == nil:
		for _, email := range ExtractEmails(readme) {
			Merge(session.Identities, domain.Observation{Email: email, Source: domain.SourceReadme, Repository: repo.Name})
		}
		s.addFinding(session, repo.Name, "README", AnalyzeText(readme))
	case errors.Is(err, domain.ErrNotFound):
	case errors.Is(err, domain.ErrRateLimited):
		session.Progress.RateLimited = true
		s.warn(session, fmt.Sprintf("readme %s: rate limited", repo.Name))
	default:
		logger.Warn("readme %s: %v", repo.Name, err)
	}

	contributors := collectInto(ctx, s, session, "contributors "+repo.Name,
		func(ctx context.Context, page int) domain.PageResult[domain.Contributor] {
			return s.client.Contributors(ctx, owner, repo.Name, page)
		},
		CollectOptions[domain.Contributor]{Key: domain.Contributor.Key})
	for _, c := range contributors.Items {
		if c.Email == "" {
			continue
		}
		Merge(session.Identities, domain.Observation{
			Email: c.Email, Name: c.Name, Source: domain.SourceContributor, Repository: repo.Name,
		})
	}
}

// collectGists lists gists and fetches their contents in bounded batches.
func (s *Scanner) collectGists(ctx context.Context, session *domain.ScanSession) {
	target := session.Target
	listed := collectInto(ctx, s, session, "gists",
		func(ctx context.Context, page int) domain.PageResult[domain.Gist] {
			return s.client.Gists(ctx, target, page)
		},
		CollectOptions[domain.Gist]{Key: func(g domain.Gist) string { return g.ID }})

	results := Batch(ctx, listed.Items, s.cfg.Concurrency,
		func(ctx context.Context, g domain.Gist) (*domain.Gist, error) {
			return s.client.Gist(ctx, g.ID)
		},
		func(done, total int) { logger.Debug("gists: fetched %d/%d", done, total) })

	session.Gists = make([]domain.Gist, 0, len(listed.Items))
	for i, res := range results {
		gist := listed.Items[i]
		if res.Err != nil {
			if errors.Is(res.Err, domain.ErrRateLimited) {
				session.Progress.RateLimited = true
			}
			logger.Warn("gist %s: %v", gist.ID, res.Err)
		} else if res.Value != nil {
			gist = *res.Value
		}
		session.Gists = append(session.Gists, gist)

		location := "gist:" + gist.ID
		for _, f := range gist.Files {
			for _, email := range ExtractEmails(f.Content) {
				Merge(session.Identities, domain.Observation{Email: email, Source: domain.SourceGist, Repository: location})
			}
			s.addFinding(session, location, f.Name, AnalyzeText(f.Content))
		}
	}
}

// collectEvents folds push-event commit authors into the aggregate.
func (s *Scanner) collectEvents(ctx context.Context, session *domain.ScanSession) {
	target := session.Target
	events := collectInto(ctx, s, session, "events",
		func(ctx context.Context, page int) domain.PageResult[domain.Event] {
			return s.client.Events(ctx, target, page)
		},
		CollectOptions[domain.Event]{Key: func(e domain.Event) string { return e.ID }})

	for _, ev := range events.Items {
		for _, c := range ev.Commits {
			Merge(session.Identities, domain.Observation{
				Email: c.Email, Name: c.Name, Source: domain.SourceEvent, Repository: ev.Repository,
			})
		}
	}
}

// collectNetwork records followers, following and starred repositories, and
// looks up a bounded number of related profiles.
func (s *Scanner) collectNetwork(ctx context.Context, session *domain.ScanSession) {
	target := session.Target
	limit := s.cfg.NetworkLimit
	pages := ceilDiv(max(limit, 1), domain.PageSize)
	accountKey := func(a domain.Account) string { return a.Login }

	followers := collectInto(ctx, s, session, "followers",
		func(ctx context.Context, page int) domain.PageResult[domain.Account] {
			return s.client.Followers(ctx, target, page)
		},
		CollectOptions[domain.Account]{Key: accountKey, MaxPages: pages})
	following := collectInto(ctx, s, session, "following",
		func(ctx context.Context, page int) domain.PageResult[domain.Account] {
			return s.client.Following(ctx, target, page)
		},
		CollectOptions[domain.Account]{Key: accountKey, MaxPages: pages})
	starred := collectInto(ctx, s, session, "starred",
		func(ctx context.Context, page int) domain.PageResult[domain.Repository] {
			return s.client.Starred(ctx, target, page)
		},
		CollectOptions[domain.Repository]{Key: func(r domain.Repository) string { return r.FullName }, MaxPages: 1})

	session.Network.Followers = followers.Items
	session.Network.Following = following.Items
	session.Network.Starred = make([]string, 0, len(starred.Items))
	for _, r := range starred.Items {
		session.Network.Starred = append(session.Network.Starred, r.FullName)
	}

	logins := networkLogins(followers.Items, following.Items, limit)
	results := Batch(ctx, logins, s.cfg.Concurrency,
		func(ctx context.Context, login string) (*domain.Profile, error) {
			return s.client.Profile(ctx, login)
		},
		func(done, total int) { logger.Debug("network: looked up %d/%d profiles", done, total) })

	for i, res := range results {
		if res.Err != nil {
			if errors.Is(res.Err, domain.ErrRateLimited) {
				session.Progress.RateLimited = true
			}
			logger.Debug("profile %s: %v", logins[i], res.Err)
			continue
		}
		if res.Value != nil {
			session.Network.Profiles = append(session.Network.Profiles, *res.Value)
		}
	}
}

// networkLogins merges followers and following, without duplicates, up to limit.
func networkLogins(followers, following []domain.Account, limit int) []string {
	var out []string
	for _, a := range slices.Concat(followers, following) {
		if len(out) >= limit {
			break
		}
		if a.Login == "" || slices.Contains(out, a.Login) {
			continue
		}
		out = append(out, a.Login)
	}
	return out
}

func (s *Scanner) addFinding(session *domain.ScanSession, repo, location string, matches []domain.SensitiveMatch) {
	if len(matches) == 0 {
		return
	}
	session.Findings = append(session.Findings, domain.SensitiveFinding{
		Repository: repo,
		Location:   location,
		Matches:    matches,
	})
}

func (s *Scanner) warn(session *domain.ScanSession, msg string) {
	logger.Warn("%s", msg)
	session.Warn(msg)
}

// save hands a consistent snapshot to the writer. Failures are logged only.
func (s *Scanner) save(ctx context.Context, session *domain.ScanSession) {
	session.UpdatedAt = s.now()
	if s.writer == nil {
		return
	}
	// Snapshots taken after an interrupt must still land on disk.
	if err := s.writer.Save(context.WithoutCancel(ctx), session.Snapshot(), session.Target, session.Platform, s.cfg.OutputDir); err != nil {
		logger.Warn("save snapshot: %v", err)
	}
}

func (s *Scanner) setStatus(target string, status *driving.ScanStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[target] = status
}

func (s *Scanner) updateStatus(target string, fn func(*driving.ScanStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.active[target]; ok {
		fn(st)
	}
}

func (s *Scanner) clearStatus(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, target)
}

// collectInto runs Collect and records page counts and early terminations
// on the session.
func collectInto[T any](
	ctx context.Context,
	s *Scanner,
	session *domain.ScanSession,
	name string,
	fetch PageFetcher[T],
	opts CollectOptions[T],
) domain.Collection[T] {
	opts.Name = name
	c := Collect(ctx, fetch, opts)
	session.Progress.PagesFetched += c.Pages

	switch c.Outcome {
	case domain.OutcomeRateLimited:
		session.Progress.RateLimited = true
		s.warn(session, fmt.Sprintf("%s: rate limited, kept %d items", name, len(c.Items)))
	case domain.OutcomeError:
		s.warn(session, fmt.Sprintf("%s: %s", name, c.Message))
	case domain.OutcomeCancelled:
		s.warn(session, fmt.Sprintf("%s: cancelled", name))
	}
	return c
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
