package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	pubsub "github.com/jiaming2012/put-screener/src/eventpubsub"
	"github.com/jiaming2012/put-screener/src/models"
)

// SlackNotifierClient posts a digest of each completed screen to a Slack
// incoming webhook.
type SlackNotifierClient struct {
	wg         *sync.WaitGroup
	webhookURL string
	topN       int
}

func (c *SlackNotifierClient) screenCompletedHandler(result *models.ScreenResult) {
	log.Debugf("SlackNotifierClient.screenCompletedHandler <- run %s", result.RunID)

	msg := formatScreenDigest(result, c.topN)

	_, err := sendResponse(msg, c.webhookURL)
	if err != nil {
		log.Error(err)
	}
}

func formatScreenDigest(result *models.ScreenResult, topN int) string {
	if len(result.Candidates) == 0 {
		return fmt.Sprintf("Put screen %s: no candidates passed the filters", result.RunID)
	}

	var str strings.Builder

	str.WriteString(fmt.Sprintf("** Put screen %s **\n", result.RunID))
	str.WriteString("------------------------\n")

	count := topN
	if count > len(result.Candidates) {
		count = len(result.Candidates)
	}

	for i := 0; i < count; i++ {
		c := result.Candidates[i]

		expiry := c.Expiration
		if expTime, err := c.ExpirationTime(); err == nil {
			expiry = fmt.Sprintf("%s (%dd)", c.Expiration, int(expTime.Sub(result.GeneratedAt).Hours()/24))
		}

		str.WriteString(fmt.Sprintf("%d: %s %s $%.2f put @ $%.2f | prob OTM %.0f%% | ann ROC %.1f%% | collateral $%.0f | score %.3f\n",
			i+1, c.Ticker, expiry, c.Strike, c.Mid, c.ProbOTM*100, c.AnnualizedROC*100, c.CollateralRequired(), c.Score))
	}

	if len(result.Candidates) > count {
		str.WriteString(fmt.Sprintf("... and %d more\n", len(result.Candidates)-count))
	}

	for _, warning := range result.Warnings {
		str.WriteString(fmt.Sprintf("warning: %s\n", warning))
	}

	return str.String()
}

func (c *SlackNotifierClient) Start(ctx context.Context) {
	c.wg.Add(1)

	if err := pubsub.Subscribe(pubsub.ScreenCompletedTopic, c.screenCompletedHandler); err != nil {
		log.Errorf("SlackNotifierClient.Start: failed to subscribe: %v", err)
	}

	go func() {
		defer c.wg.Done()

		<-ctx.Done()
		log.Info("stopping SlackNotifierClient consumer")
	}()
}

func NewSlackNotifierClient(wg *sync.WaitGroup, webhookURL string, topN int) *SlackNotifierClient {
	if topN <= 0 {
		topN = 5
	}

	return &SlackNotifierClient{
		wg:         wg,
		webhookURL: webhookURL,
		topN:       topN,
	}
}

func sendResponse(msg string, url string) ([]byte, error) {
	body := make(map[string]interface{})
	body["text"] = msg

	return postJSON(url, body)
}

func postJSON(url string, body map[string]interface{}) ([]byte, error) {
	client := http.Client{
		Timeout: 60 * time.Second,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("postJSON (Marshal): %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("postJSON (NewRequest): %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	res, getErr := client.Do(req)
	if getErr != nil {
		return nil, fmt.Errorf("postJSON (Do): %w", getErr)
	}

	if res.Body != nil {
		defer res.Body.Close()
	}

	bodyBytes, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, fmt.Errorf("postJSON (ReadAll): %w", readErr)
	}

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("postJSON: webhook returned %d: %s", res.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}
