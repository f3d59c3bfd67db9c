package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier"
	"github.com/mauv0809/pong-ladder/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}
	if s.channelID == "" {
		log.Warn("No Slack channel configured, skipping message")
		return "", "", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchResult posts a recorded match to the channel.
func (s *Notifier) SendMatchResult(result *club.MatchResult, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(result), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []stats.LeaderboardEntry, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(entries), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []stats.LeaderboardEntry) (any, error) {
	return s.formatLeaderboard(entries), nil
}

// FormatPlayerStatsResponse formats a player profile for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(profile stats.PlayerProfile) (any, error) {
	return s.formatPlayerStats(profile), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string, suggestions []club.PlayerSuggestion) (any, error) {
	return s.formatPlayerNotFound(query, suggestions), nil
}

// formatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchResult(result *club.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match recorded! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	winnerScore, loserScore := result.Match.ScoreFor(result.Winner.ID)
	summary := fmt.Sprintf("*%s* beat *%s* %d-%d", result.Winner.Name, result.Loser.Name, winnerScore, loserScore)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", summary, false, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", ratingLine(result.Winner, result.Match.EloChanges[result.Winner.ID]), false, false),
		slack.NewTextBlockObject("mrkdwn", ratingLine(result.Loser, result.Match.EloChanges[result.Loser.ID]), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	played := result.Match.PlayedAt.Format("Monday 02 Jan, 15:04")
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", played, true, false)))

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = fmt.Sprintf("%s beat %s %d-%d", result.Winner.Name, result.Loser.Name, winnerScore, loserScore)
	return msg
}

func ratingLine(p club.Player, change int) string {
	return fmt.Sprintf("*%s*\n%d (%+d)", p.Name, p.EloRating, change)
}

// formatLeaderboard creates a Slack message to display the ladder.
// Players without enough matches are listed after the ranked ones.
func (s *Notifier) formatLeaderboard(entries []stats.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Pong Ladder 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var unranked []string
	for _, e := range entries {
		if !e.IsEligible {
			unranked = append(unranked, fmt.Sprintf("%s (%d)", e.Player.Name, e.Player.EloRating))
			continue
		}
		playerText := fmt.Sprintf("%s *%s* %d\n> %s | Win %%: %.1f%% (%d/%d)",
			stats.RankLabel(e.Rank),
			e.Player.Name,
			e.Player.EloRating,
			e.Tier.Name,
			e.WinRate,
			e.Player.Wins,
			e.Player.MatchesPlayed,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	if len(unranked) > 0 {
		text := "Not ranked yet: " + strings.Join(unranked, ", ")
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", text, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's profile.
func (s *Notifier) formatPlayerStats(profile stats.PlayerProfile) slack.Message {
	blocks := make([]slack.Block, 0)
	p := profile.Player

	headerText := fmt.Sprintf("🏓 Stats for %s 🏓", p.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Rating*: %d (%s)\n> *Win %%*: %.1f%% (%d/%d)",
		p.EloRating,
		profile.Tier.Name,
		profile.WinRate,
		p.Wins,
		p.MatchesPlayed,
	)
	if len(profile.RecentForm) > 0 {
		playerText += "\n> *Form*: " + strings.Join(profile.RecentForm, " ")
	}
	if !profile.IsEligible {
		playerText += fmt.Sprintf("\n> %d more matches to get ranked", profile.MatchesUntilRanked)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	if len(profile.Opponents) > 0 {
		top := profile.Opponents[0]
		rivalText := fmt.Sprintf("Most played: %s (%d-%d)", top.OpponentName, top.Wins, top.Losses)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", rivalText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when no player matches the query.
func (s *Notifier) formatPlayerNotFound(query string, suggestions []club.PlayerSuggestion) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*.", query)
	if len(suggestions) > 0 {
		names := make([]string, 0, len(suggestions))
		for _, sg := range suggestions {
			names = append(names, sg.Player.Name)
		}
		text += " Did you mean: " + strings.Join(names, ", ") + "?"
	} else {
		text += " Try a different name."
	}
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
