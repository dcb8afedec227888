package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/careerai/backend/internal/providers/llm"
	"github.com/careerai/backend/internal/providers/stt"
	"github.com/careerai/backend/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const AnswerStream = "interview:stream"

// EventsChannel is the pub/sub channel where workers publish interview
// events for a given interview; the WebSocket handler forwards it verbatim.
func EventsChannel(interviewID string) string {
	return "interview:" + interviewID + ":events"
}

// AnswerWorkerPool consumes candidate answers from the Redis stream,
// transcribes voice answers, persists the transcript turn, and streams the
// interviewer's next question back over pub/sub.
type AnswerWorkerPool struct {
	Redis      *redis.Client
	Interviews services.InterviewService
	NumWorkers int

	STT stt.Provider
	LLM llm.Provider

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *AnswerWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Interviews == nil || p.STT == nil || p.LLM == nil {
		return errors.New("AnswerWorkerPool missing dependency: Redis/Interviews/STT/LLM must be set")
	}
	if p.Stream == "" {
		p.Stream = AnswerStream
	}
	if p.Group == "" {
		p.Group = "interview-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *AnswerWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func normalizeLanguage(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "tr", "tr-TR":
		return "tr-TR"
	case "en", "en-US":
		return "en-US"
	default:
		if v == "" {
			return "en-US"
		}
		return v
	}
}

func (p *AnswerWorkerPool) publishStatus(ctx context.Context, ch, status, message string, turnIndex int64) {
	payload, _ := json.Marshal(map[string]any{
		"type":       "status",
		"status":     status,
		"message":    message,
		"turn_index": turnIndex,
	})
	_ = p.Redis.Publish(ctx, ch, string(payload)).Err()
}

func (p *AnswerWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	interviewID := getStr("interview_id")
	userID := getStr("user_id")
	turnIndexStr := getStr("turn_index")
	if interviewID == "" || userID == "" || turnIndexStr == "" {
		return
	}
	turnIndex, _ := strconv.ParseInt(turnIndexStr, 10, 64)

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"interview_id": interviewID,
		"turn_index":   turnIndex,
	})

	eventsCh := EventsChannel(interviewID)

	// Resolve the candidate's answer text.
	text := getStr("text")
	if getStr("kind") == "voice" {
		raw := getStr("audio_base64")
		if raw == "" {
			return
		}
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:] // strip data:...;base64,
		}
		audio, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			log.WithError(err).Warn("base64 decode failed")
			p.publishStatus(ctx, eventsCh, "failed", "invalid audio_base64", turnIndex)
			return
		}

		p.publishStatus(ctx, eventsCh, "processing", "transcribing answer", turnIndex)

		transcript, conf, err := p.STT.Transcribe(ctx, audio, normalizeLanguage(getStr("language")))
		if err != nil {
			log.WithError(err).Error("transcription failed")
			p.publishStatus(ctx, eventsCh, "failed", "transcription failed", turnIndex)
			return
		}
		text = transcript

		sttPayload, _ := json.Marshal(map[string]any{
			"type":       "transcript",
			"turn_index": turnIndex,
			"text":       transcript,
			"confidence": conf,
		})
		_ = p.Redis.Publish(ctx, eventsCh, string(sttPayload)).Err()
	}

	if strings.TrimSpace(text) == "" {
		p.publishStatus(ctx, eventsCh, "failed", "empty answer", turnIndex)
		return
	}

	if _, err := p.Interviews.AppendMessage(ctx, interviewID, userID, "user", text); err != nil {
		log.WithError(err).Error("failed to persist candidate answer")
		p.publishStatus(ctx, eventsCh, "failed", "failed to store answer", turnIndex)
		return
	}

	// Interviewer reply, streamed.
	start := time.Now()
	p.publishStatus(ctx, eventsCh, "processing", "interviewer thinking", turnIndex)

	prompt := p.buildPrompt(ctx, interviewID, getStr("position"), text)

	chunks, errs := p.LLM.StreamAnswer(ctx, prompt)

	full := strings.Builder{}
	seq := int64(0)

	for chunk := range chunks {
		seq++
		full.WriteString(chunk)

		chPayload, _ := json.Marshal(map[string]any{
			"type":       "reply_chunk",
			"turn_index": turnIndex,
			"seq":        seq,
			"chunk":      chunk,
		})
		_ = p.Redis.Publish(ctx, eventsCh, string(chPayload)).Err()
	}

	var streamErr error
	select {
	case streamErr = <-errs:
	default:
	}
	if streamErr != nil {
		log.WithError(streamErr).Error("interviewer reply stream failed")
		p.publishStatus(ctx, eventsCh, "failed", "interviewer reply failed", turnIndex)
		return
	}

	reply := full.String()
	if _, err := p.Interviews.AppendMessage(ctx, interviewID, userID, "assistant", reply); err != nil {
		log.WithError(err).Error("failed to persist interviewer reply")
	}

	donePayload, _ := json.Marshal(map[string]any{
		"type":               "reply_complete",
		"turn_index":         turnIndex,
		"full_response":      reply,
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
	_ = p.Redis.Publish(ctx, eventsCh, string(donePayload)).Err()
	p.publishStatus(ctx, eventsCh, "done", "turn processed", turnIndex)
}

func (p *AnswerWorkerPool) buildPrompt(ctx context.Context, interviewID, position, answer string) string {
	var sb strings.Builder
	sb.WriteString("You are a job interviewer running a simulated interview")
	if position != "" {
		sb.WriteString(" for the position: " + position)
	}
	sb.WriteString(".\nAsk one concise follow-up question at a time. Do not evaluate out loud.\n")

	// Most recent turns, oldest first.
	if history, err := p.Interviews.RecentContext(ctx, interviewID, 10); err == nil && len(history) > 0 {
		sb.WriteString("\nTranscript so far:\n")
		for i := len(history) - 1; i >= 0; i-- {
			m := history[i]
			label := "Candidate"
			if m.Role == "assistant" {
				label = "Interviewer"
			}
			sb.WriteString(label + ": " + m.Content + "\n")
		}
	}

	sb.WriteString("\nCandidate's latest answer:\n" + answer + "\n\nInterviewer:")
	return sb.String()
}
