package controller

import (
	"context"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c *controller) send(ctx context.Context, connectionId string, output *Output) {
	if err := c.connRepo.Send(connectionId, output); err != nil {
		c.logger.DebugContext(ctx, "failed to send",
			"connection_id", connectionId,
			"type", output.Type,
			"error", err,
		)
	}
}

func (c *controller) broadcast(ctx context.Context, targets []string, output *Output) {
	for _, connectionId := range targets {
		c.send(ctx, connectionId, output)
	}
}

func (c *controller) writeError(ctx context.Context, connectionId, message string) {
	c.send(ctx, connectionId, &Output{
		Type:    "ERROR",
		Payload: map[string]any{"message": message},
	})
}
