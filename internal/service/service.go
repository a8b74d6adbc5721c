package service

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/birthday"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/source"
	api "gitlab.com/dirk.krummacker/birthday-greeter/pkg/model"
	"go.uber.org/zap"
)

// maxInt is the largest possible int value
const maxInt = int(^uint(0) >> 1)

// handlers serves the REST API from a contact source.
type handlers struct {
	source source.Source
	logger *zap.Logger
	now    func() time.Time
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. The source can be
// a friends file, a database, or a fake within unit tests. now is the clock used for the default
// reference date.
func SetupHttpRouter(src source.Source, logger *zap.Logger, now func() time.Time) *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		logger.Info("Turning off HTTP request logging.")
		router = gin.New()
	} else {
		router = gin.Default()
	}
	h := &handlers{source: src, logger: logger, now: now}
	router.GET("/contacts", h.findContacts)
	router.GET("/birthdays", h.findBirthdays)
	router.GET("/health", health)
	return router
}

// findContacts responds with a list of contacts as JSON, in the order of the source.
//
// The URL parameters 'firstname' and 'lastname' are interpreted as the beginning of the first name
// or last name of the contact.
//
// The URL parameter 'birthday' consists of a month part and a day part, separated by '-'. The call
// returns all contacts that have their birthday on this month and day, regardless of the year.
//
// The URL parameter 'limit' specifies how many contacts matching the search criteria are returned.
// The URL parameter 'offset' specifies how many items from the list of results are skipped in the
// beginning. Together with the 'limit' parameter, one can implement search result paging.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?firstname=Ji"
//	> curl "http://localhost:8080/contacts?lastname=Smi"
//	> curl "http://localhost:8080/contacts?birthday=11-29"
//	> curl "http://localhost:8080/contacts?limit=20&offset=60"
func (h *handlers) findContacts(c *gin.Context) {
	first, last, bday, bmonth, successNameAndBirthday := parseNameAndBirthday(c)
	if !successNameAndBirthday {
		return
	}
	limit, offset, successLimitAndOffset := parseLimitAndOffset(c)
	if !successLimitAndOffset {
		return
	}

	contacts := []api.Contact{}
	skipped := 0
	for contact, err := range h.source.All(c.Request.Context()) {
		if err != nil {
			h.sourceFailed(c, err)
			return
		}
		if !strings.HasPrefix(contact.FirstName, first) || !strings.HasPrefix(contact.LastName, last) {
			continue
		}
		if bmonth != 0 && (int(contact.Birthday.Month()) != bmonth || contact.Birthday.Day() != bday) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(contacts) == limit {
			break
		}
		contacts = append(contacts, contact.Public())
	}
	if len(contacts) == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	} else {
		c.IndentedJSON(http.StatusOK, contacts)
	}
}

// findBirthdays responds with the contacts whose birthday falls on the date given by the URL
// parameter 'date' (YYYY-MM-DD), or on today if the parameter is omitted. An empty list means that
// nobody has their birthday on that date.
//
// REST API calls:
//
//	> curl "http://localhost:8080/birthdays"
//	> curl "http://localhost:8080/birthdays?date=2024-03-15"
func (h *handlers) findBirthdays(c *gin.Context) {
	reference, err := birthday.ResolveReferenceDate(c.Query("date"), h.now)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	selected, err := birthday.Select(reference, h.source.All(c.Request.Context()))
	if err != nil {
		h.sourceFailed(c, err)
		return
	}
	contacts := make([]api.Contact, 0, len(selected))
	for _, contact := range selected {
		contacts = append(contacts, contact.Public())
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// health responds with a fixed status so that callers can wait for the service to come up.
func health(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok"})
}

// sourceFailed logs a source error and answers with an internal server error.
func (h *handlers) sourceFailed(c *gin.Context, err error) {
	h.logger.Error("Reading contacts failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "could not read contacts"})
}

// parseNameAndBirthday inspects the URL parameters and determines values for first name, last
// name, day and month of the contact's birthday.
func parseNameAndBirthday(c *gin.Context) (firstname string, lastname string, bday int, bmonth int, success bool) {
	firstname = c.Query("firstname")
	lastname = c.Query("lastname")
	monthDay := c.Query("birthday")
	if monthDay != "" {
		before, after, found := strings.Cut(monthDay, "-")
		if !found {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid birthday URL parameter"})
			return "", "", 0, 0, false
		}
		// A leap year accepts every month and day that can ever be a birthday.
		date, err := time.Parse(model.DateLayout, "2000-"+before+"-"+after)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid birthday URL parameter"})
			return "", "", 0, 0, false
		}
		bmonth = int(date.Month())
		bday = date.Day()
	}
	return firstname, lastname, bday, bmonth, true
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set.
func parseLimitAndOffset(c *gin.Context) (limit int, offset int, success bool) {
	limit = maxInt
	if value := c.Query("limit"); value != "" {
		var err error
		limit, err = strconv.Atoi(value)
		if err != nil || limit < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid limit parameter"})
			return 0, 0, false
		}
	}
	if value := c.Query("offset"); value != "" {
		var err error
		offset, err = strconv.Atoi(value)
		if err != nil || offset < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid offset parameter"})
			return 0, 0, false
		}
	}
	return limit, offset, true
}
