package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/usecase/commands"
)

// Client talks to the platform's account directory. Ensure is an
// idempotent call: the directory creates an account for the email if
// none exists and returns the generated credential pair, or reports the
// account as pre-existing.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type ensureAccountRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
}

type ensureAccountResponse struct {
	Created  bool   `json:"created"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) EnsureAccount(ctx context.Context, contact registration.Contact) (*commands.Credentials, error) {
	body, err := json.Marshal(ensureAccountRequest{
		Email:     contact.Email(),
		FirstName: contact.FirstName(),
		Surname:   contact.Surname(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accounts/ensure", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("account directory unexpected status: %d", resp.StatusCode)
	}

	var result ensureAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if !result.Created {
		return nil, nil
	}
	return &commands.Credentials{Username: result.Username, Password: result.Password}, nil
}
