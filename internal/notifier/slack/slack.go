package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/notifier"
	"github.com/mauv0809/keiths-skittles/internal/stats"
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
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
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

// SendGameResult posts the final score of a game.
func (s *Notifier) SendGameResult(st *stats.GameStats, dryRun bool) error {
	msg := formatGameResult(st)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatGameResult creates the Slack message for a finished game using Block Kit.
func formatGameResult(st *stats.GameStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🎳 %s vs %s 🎳", st.Game.Date.Format("Mon 02 Jan 2006"), st.Game.OpponentName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	var emoji string
	switch st.Result {
	case stats.ResultWin:
		emoji = "🏆"
	case stats.ResultLoss:
		emoji = "😞"
	default:
		emoji = "🤝"
	}
	resultText := fmt.Sprintf("*%s* %s\n> Own Team %d : %d %s", st.Result, emoji, st.OwnTotal, st.OppTotal, st.Game.OpponentName)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", resultText, false, false), nil, nil))

	if len(st.RoundDiffs) > 0 {
		var fields []*slack.TextBlockObject
		for _, rd := range st.RoundDiffs {
			text := fmt.Sprintf("Round %d\n%d : %d (%+d)", rd.Round, rd.OwnTotal, rd.OppTotal, rd.Differential)
			fields = append(fields, slack.NewTextBlockObject("plain_text", text, true, false))
		}
		// Section blocks accept at most 10 fields.
		if len(fields) > 10 {
			fields = fields[:10]
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Rounds:", true, false), fields, nil))
	}

	if top := st.TopScorers(); len(top) > 0 {
		names := make([]string, 0, len(top))
		for _, p := range top {
			names = append(names, p.Name)
		}
		topText := fmt.Sprintf("Top scorer: %s (%d)", strings.Join(names, " & "), top[0].Total)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", topText, true, false)))
	}
	if st.Game.LocationName != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "📍 "+st.Game.LocationName, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}
