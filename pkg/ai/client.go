package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/icognita1702/festalog/environments"
)

const classifyPrompt = `Você é o classificador de intenções do atendimento de uma locadora de artigos de festa.
Classifique a mensagem do cliente em exatamente uma destas intenções:
saudacao, disponibilidade, preco, orcamento, atendente, geral.

Responda somente com JSON no formato {"intencao": "<intencao>", "confianca": <0.0-1.0>}.

Mensagem do cliente: %q`

const respondPrompt = `Você é o assistente virtual de uma locadora de artigos de festa (brinquedos infláveis, mesas, cadeiras e máquinas de festa).
Responda a mensagem do cliente em português, de forma curta e simpática.
Se não souber responder, oriente o cliente a digitar "menu" para ver as opções.

Mensagem do cliente: %q`

// Client wraps the Gemini API for the two calls the bot makes: intent
// classification and free-text responses.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg environments.AIConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Classify asks the model to label the message. The answer is returned as
// raw JSON text; strict decoding happens at the caller.
func (c *Client) Classify(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(fmt.Sprintf(classifyPrompt, message)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr(float32(0)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to classify message: %w", err)
	}

	return resp.Text(), nil
}

// FreeText asks the model for a conversational answer to the message.
func (c *Client) FreeText(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(fmt.Sprintf(respondPrompt, message)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.7)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return resp.Text(), nil
}
