package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/alecthomas/kong"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/notifier"
	api "gitlab.com/dirk.krummacker/birthday-greeter/pkg/model"
)

// CLI is the command line of the client.
type CLI struct {
	URL  string `help:"Base URL of the contacts service." default:"http://localhost:8080"`
	Date string `short:"d" help:"Reference date (YYYY-MM-DD). Defaults to today on the server." placeholder:"DATE"`
}

// Usage example on the command line:
// > go run main.go -d 2024-03-15
func main() {
	var cli CLI
	kctx := kong.Parse(&cli, kong.Name("client"), kong.Description("Greets the friends that the contacts service reports."))
	contacts, err := fetchBirthdays(http.DefaultClient, cli.URL, cli.Date)
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(notifier.NewConsole(os.Stdout).Notify(contacts))
}

// fetchBirthdays asks the service for the contacts whose birthday falls on date.
func fetchBirthdays(client *http.Client, baseURL string, date string) ([]model.Contact, error) {
	requestURL := baseURL + "/birthdays"
	if date != "" {
		requestURL += "?" + url.Values{"date": {date}}.Encode()
	}
	res, err := client.Get(requestURL)
	if err != nil {
		return nil, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s answered %s: %s", requestURL, res.Status, resBody)
	}

	var public []api.Contact
	if err := json.Unmarshal(resBody, &public); err != nil {
		return nil, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	contacts := make([]model.Contact, 0, len(public))
	for _, p := range public {
		contact, err := model.FromPublic(p)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
