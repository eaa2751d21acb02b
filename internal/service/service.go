package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/auth"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/config"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/repository"
)

// maxInt is the largest possible int value
const maxInt = int(^uint(0) >> 1)

// ContactStore is the contact access layer as seen by the HTTP handlers.
type ContactStore interface {
	ListOwn(ctx context.Context, owner model.Account, limit int, offset int) ([]model.Contact, error)
	ListAll(ctx context.Context, limit int, offset int) ([]model.Contact, error)
	GetOne(ctx context.Context, owner model.Account, id int64) (model.Contact, error)
	Search(ctx context.Context, owner model.Account, query string) ([]model.Contact, error)
	Create(ctx context.Context, owner model.Account, fields model.ContactFields) (model.Contact, error)
	Update(ctx context.Context, owner model.Account, id int64, fields model.ContactFields) (model.Contact, error)
	Delete(ctx context.Context, owner model.Account, id int64) (model.Contact, error)
	UpcomingBirthdays(ctx context.Context, owner model.Account) ([]model.Contact, error)
}

// Service holds the collaborators of the HTTP handlers.
type Service struct {
	contacts ContactStore
}

func New(contacts ContactStore) *Service {
	return &Service{contacts: contacts}
}

// CreateDatabase opens a connection pool to the MySQL database described by cfg.
func CreateDatabase(cfg config.Config) (*sql.DB, error) {
	return sql.Open("mysql", cfg.DSN())
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. All contact
// endpoints require a bearer token; listing the contacts of all accounts requires the admin role.
func (s *Service) SetupHttpRouter(authenticator *auth.Authenticator, logging bool) *gin.Engine {
	var router *gin.Engine
	if logging {
		router = gin.Default()
	} else {
		slog.Info("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.GET("/health", health)

	contacts := router.Group("/contacts", authenticator.Middleware())
	contacts.GET("", s.findContacts)
	contacts.GET("/all", auth.RequireRole(model.RoleAdmin), s.findAllContacts)
	contacts.GET("/search", s.searchContacts)
	contacts.GET("/birthdays", s.findUpcomingBirthdays)
	contacts.POST("", s.createContact)
	contacts.GET("/:id", s.findContactByID)
	contacts.PUT("/:id", s.updateContactByID)
	contacts.DELETE("/:id", s.deleteContactByID)
	return router
}

// health answers liveness probes.
func health(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok"})
}

// owner returns the authenticated account. The auth middleware guarantees that there is one.
func owner(c *gin.Context) model.Account {
	account, _ := auth.CurrentAccount(c)
	return account
}

// respondError maps an error of the contact access layer to an HTTP response.
func respondError(c *gin.Context, err error) {
	var validationErr *repository.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid input", "errors": validationErr.Fields})
	case errors.Is(err, repository.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	case errors.Is(err, repository.ErrConstraintViolation):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "contact conflicts with existing data"})
	default:
		slog.Error("contact store failure", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "contact store unavailable"})
	}
}

// findContacts responds with a page of the caller's contacts as JSON.
//
// The URL parameter 'limit' specifies how many contacts are returned. The URL parameter 'offset'
// specifies how many contacts are skipped in the beginning. Together with the 'limit' parameter,
// one can implement paging.
//
// REST API calls:
//
//	> curl -H "Authorization: Bearer $TOKEN" "http://localhost:8080/contacts"
//	> curl -H "Authorization: Bearer $TOKEN" "http://localhost:8080/contacts?limit=20&offset=60"
func (s *Service) findContacts(c *gin.Context) {
	limit, offset, success := parseLimitAndOffset(c)
	if !success {
		return
	}
	contacts, err := s.contacts.ListOwn(c.Request.Context(), owner(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findAllContacts responds with a page of the contacts of all accounts. Only administrators get
// here.
//
//	> curl -H "Authorization: Bearer $TOKEN" "http://localhost:8080/contacts/all?limit=100"
func (s *Service) findAllContacts(c *gin.Context) {
	limit, offset, success := parseLimitAndOffset(c)
	if !success {
		return
	}
	contacts, err := s.contacts.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// searchContacts responds with the caller's contacts whose first name, last name or email
// contains the URL parameter 'q', ignoring case.
//
//	> curl -H "Authorization: Bearer $TOKEN" "http://localhost:8080/contacts/search?q=ann"
func (s *Service) searchContacts(c *gin.Context) {
	contacts, err := s.contacts.Search(c.Request.Context(), owner(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findUpcomingBirthdays responds with the caller's contacts that have their birthday within the
// next seven days.
//
//	> curl -H "Authorization: Bearer $TOKEN" "http://localhost:8080/contacts/birthdays"
func (s *Service) findUpcomingBirthdays(c *gin.Context) {
	contacts, err := s.contacts.UpcomingBirthdays(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set.
func parseLimitAndOffset(c *gin.Context) (limit int, offset int, success bool) {
	limit = maxInt
	if s := c.Query("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid limit parameter"})
			return 0, 0, false
		}
	}
	if s := c.Query("offset"); s != "" {
		var err error
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid offset parameter"})
			return 0, 0, false
		}
	}
	return limit, offset, true
}

// parseID reads the id parameter of the request URL. An id that is not a number cannot exist,
// so the request is answered with NOT FOUND.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// bindFields decodes the request's JSON into the editable contact fields.
func bindFields(c *gin.Context) (model.ContactFields, bool) {
	var fields model.ContactFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return model.ContactFields{}, false
	}
	return fields, true
}

// createContact stores the contact specified in the request's JSON for the caller. It responds
// with the full contact data including the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"first_name": "Hans", "last_name": "Wurst", "email": "hans@example.com", "phone_number": "+4908154711", "birthday": "1969-03-02", "additional_info": ""}'
func (s *Service) createContact(c *gin.Context) {
	fields, success := bindFields(c)
	if !success {
		return
	}
	contact, err := s.contacts.Create(c.Request.Context(), owner(c), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, contact)
}

// findContactByID responds with the caller's contact whose ID value matches the id parameter of
// the request URL.
//
//	> curl -H "Authorization: Bearer $TOKEN" http://localhost:8080/contacts/56
func (s *Service) findContactByID(c *gin.Context) {
	id, success := parseID(c)
	if !success {
		return
	}
	contact, err := s.contacts.GetOne(c.Request.Context(), owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID replaces all fields of the caller's contact whose ID value matches the id
// parameter of the request URL, and responds with the new version of the contact. Every field
// must be present in the JSON.
//
//	> curl http://localhost:8080/contacts/56 --request "PUT" --include --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"first_name": "Hans", "last_name": "Wurst", "email": "hans@example.com", "phone_number": "81970000", "birthday": "1969-03-02", "additional_info": "moved"}'
func (s *Service) updateContactByID(c *gin.Context) {
	id, success := parseID(c)
	if !success {
		return
	}
	fields, success := bindFields(c)
	if !success {
		return
	}
	contact, err := s.contacts.Update(c.Request.Context(), owner(c), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// deleteContactByID deletes the caller's contact whose ID value matches the id parameter of the
// request URL and responds with its last state.
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE" --header "Authorization: Bearer $TOKEN"
func (s *Service) deleteContactByID(c *gin.Context) {
	id, success := parseID(c)
	if !success {
		return
	}
	contact, err := s.contacts.Delete(c.Request.Context(), owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}
