package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/usecase"
	"github.com/slackmail/slack-gmail-bridge/internal/conf"
)

// RunMode selects whether digests are actually sent
type RunMode int

const (
	// ModeTest runs the full fetch-filter-format cycle but logs the digest
	// instead of sending it
	ModeTest RunMode = iota
	// ModeLive sends digests through the Gmail extension
	ModeLive
)

func (m RunMode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "test"
}

// MonitorService runs the poll loop: one fetch-filter-format-send cycle per
// tick. Cycles never overlap; a busy flag skips the tick instead.
type MonitorService struct {
	cfg      *conf.Config
	slack    repo.SlackRepo
	mail     repo.MailRepo
	seen     domain.SeenSet
	summary  repo.SummaryRepo
	filterUC *usecase.FilterUsecase
	digestUC *usecase.DigestUsecase
	mode     RunMode

	interval time.Duration
	busy     bool
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewMonitorService creates a new monitor service
func NewMonitorService(
	cfg *conf.Config,
	slack repo.SlackRepo,
	mail repo.MailRepo,
	seen domain.SeenSet,
	summary repo.SummaryRepo,
	mode RunMode,
) *MonitorService {
	return &MonitorService{
		cfg:      cfg,
		slack:    slack,
		mail:     mail,
		seen:     seen,
		summary:  summary,
		filterUC: usecase.NewFilterUsecase(cfg.ToFilterConfig()),
		digestUC: usecase.NewDigestUsecase(),
		mode:     mode,
		interval: cfg.CheckInterval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the monitor loop
func (s *MonitorService) Start() {
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go s.loop()
	fmt.Printf("[Monitor] Started in %s mode, interval %v\n", s.mode, s.interval)
}

// Stop stops the monitor loop and waits for the current cycle
func (s *MonitorService) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	fmt.Println("[Monitor] Stopped")
}

func (s *MonitorService) loop() {
	defer s.wg.Done()

	// Initial cycle before the first tick
	s.runCycle()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.busy {
				fmt.Println("[Monitor] Previous cycle still running, skipping tick")
				continue
			}
			s.runCycle()
		case <-s.stopCh:
			return
		}
	}
}

// runCycle performs one fetch-filter-format-send cycle
func (s *MonitorService) runCycle() {
	s.busy = true
	defer func() { s.busy = false }()

	ctx := context.Background()

	messages, err := s.fetchAll(ctx)
	if err != nil {
		fmt.Printf("[Monitor] Fetch failed, skipping cycle: %v\n", err)
		return
	}

	result := s.filterUC.Filter(messages, s.seen)
	if result.Skipped > 0 {
		fmt.Printf("[Monitor] Skipped %d malformed message record(s)\n", result.Skipped)
	}

	candidates := s.gateCategories(result.Candidates)
	digest := s.digestUC.Format(candidates)
	if digest.IsEmpty() {
		fmt.Println("[Monitor] No qualifying messages this cycle")
		return
	}

	if s.mode == ModeTest {
		fmt.Printf("[Monitor] TEST MODE, would send to %s:\nSubject: %s\n%s\n",
			s.cfg.User.EmailAddress, digest.Subject, digest.Body)
		return
	}

	s.attachSummary(ctx, &digest)

	if err := s.mail.Send(ctx, &digest, s.cfg.User.EmailAddress); err != nil {
		fmt.Printf("[Monitor] Send failed: %v\n", err)
		return
	}
	fmt.Printf("[Monitor] Notified %d message(s)\n", len(digest.MessageIDs))
}

// fetchAll gathers one batch across every monitored scope. Any fetch error
// aborts the whole batch so the filter never runs on partial data.
func (s *MonitorService) fetchAll(ctx context.Context) ([]domain.SlackMessage, error) {
	var batch []domain.SlackMessage

	if s.cfg.Slack.MonitorDMs {
		dms, err := s.slack.FetchMessages(ctx, repo.FetchScope{
			ChannelType: domain.ChannelTypeDM,
			Limit:       s.cfg.MaxMessagesPerCheck,
		})
		if err != nil {
			return nil, err
		}
		batch = append(batch, dms...)
	}

	for _, channel := range s.cfg.Slack.ChannelsToMonitor {
		msgs, err := s.slack.FetchMessages(ctx, repo.FetchScope{
			ChannelType: domain.ChannelTypeChannel,
			Name:        channel,
			Limit:       s.cfg.MaxMessagesPerCheck,
		})
		if err != nil {
			return nil, err
		}
		batch = append(batch, msgs...)
	}

	return batch, nil
}

// gateCategories drops candidates whose every reason belongs to a disabled
// notification category. The filter itself stays unaware of send toggles.
func (s *MonitorService) gateCategories(candidates []domain.NotificationCandidate) []domain.NotificationCandidate {
	var kept []domain.NotificationCandidate
	for _, cand := range candidates {
		if s.categoryEnabled(&cand) {
			kept = append(kept, cand)
		}
	}
	return kept
}

func (s *MonitorService) categoryEnabled(cand *domain.NotificationCandidate) bool {
	for _, r := range cand.Reasons {
		switch r {
		case domain.ReasonDM:
			if s.cfg.Email.SendDMSummaries {
				return true
			}
		case domain.ReasonMention:
			if s.cfg.Email.SendChannelMention {
				return true
			}
		case domain.ReasonKeyword:
			if s.cfg.Email.SendKeywordAlerts {
				return true
			}
		}
	}
	return false
}

// attachSummary prepends a model-written summary when configured. Summary
// failures never block the send.
func (s *MonitorService) attachSummary(ctx context.Context, digest *domain.EmailDigest) {
	if s.summary == nil {
		return
	}
	text, err := s.summary.Summarize(ctx, digest.Body)
	if err != nil {
		fmt.Printf("[Monitor] Summary failed, sending without: %v\n", err)
		return
	}
	digest.Body = "Summary: " + text + "\n\n" + digest.Body
}
