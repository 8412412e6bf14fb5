package http

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/middleware"
	"stocksim/internal/usecase"
)

// WebHandler serves the HTML pages of the simulator
type WebHandler struct {
	templates *template.Template
	accounts  *usecase.AccountService
	broker    *usecase.BrokerService
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(
	templates *template.Template,
	accounts *usecase.AccountService,
	broker *usecase.BrokerService,
) *WebHandler {
	return &WebHandler{
		templates: templates,
		accounts:  accounts,
		broker:    broker,
	}
}

// hasValidSession reports whether the request carries a session cookie whose
// token still verifies. Cookie presence alone is not enough: an expired or
// mis-signed token must read as logged out, or the login page would bounce
// the browser back to routes that reject the same cookie.
func hasValidSession(c echo.Context) bool {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = middleware.ParseSessionToken(cookie.Value)
	return err == nil
}

// pageData builds the base template data shared by every page
func (h *WebHandler) pageData(c echo.Context, title string) map[string]interface{} {
	return map[string]interface{}{
		"Title":    title,
		"LoggedIn": hasValidSession(c),
		"Flash":    c.QueryParam("flash"),
	}
}

func (h *WebHandler) render(c echo.Context, code int, name string, data interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return h.templates.ExecuteTemplate(c.Response(), name, data)
}

// redirectFlash redirects to a path with a flash message in the query string
func redirectFlash(c echo.Context, path, flash string) error {
	return c.Redirect(http.StatusSeeOther, path+"?flash="+url.QueryEscape(flash))
}

// HandleIndex renders the portfolio
// GET /
func (h *WebHandler) HandleIndex(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	portfolio, err := h.broker.Portfolio(c.Request().Context(), userID)
	if err != nil {
		return h.Apology(c, err)
	}

	data := h.pageData(c, "Portfolio")
	data["Portfolio"] = portfolio
	return h.render(c, http.StatusOK, "portfolio", data)
}

// HandleLogin renders the login page
// GET /login
func (h *WebHandler) HandleLogin(c echo.Context) error {
	// Already logged in: go straight to the portfolio
	if hasValidSession(c) {
		return c.Redirect(http.StatusFound, "/")
	}
	return h.render(c, http.StatusOK, "login", h.pageData(c, "Log In"))
}

// HandleLoginPost verifies credentials and establishes the session
// POST /login
func (h *WebHandler) HandleLoginPost(c echo.Context) error {
	var form dto.LoginForm
	if err := c.Bind(&form); err != nil {
		return h.apology(c, http.StatusBadRequest, "invalid form submission")
	}
	if err := form.Validate(); err != nil {
		return h.Apology(c, err)
	}

	user, err := h.accounts.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		return h.Apology(c, err)
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return h.Apology(c, err)
	}
	c.SetCookie(middleware.SessionCookie(token))

	return c.Redirect(http.StatusSeeOther, "/")
}

// HandleLogout clears the session unconditionally
// GET /logout
func (h *WebHandler) HandleLogout(c echo.Context) error {
	c.SetCookie(middleware.SessionCookie(""))
	return c.Redirect(http.StatusFound, "/login")
}

// HandleRegister renders the registration page
// GET /register
func (h *WebHandler) HandleRegister(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", h.pageData(c, "Register"))
}

// HandleRegisterPost creates the account and logs the new user in
// POST /register
func (h *WebHandler) HandleRegisterPost(c echo.Context) error {
	var form dto.RegisterForm
	if err := c.Bind(&form); err != nil {
		return h.apology(c, http.StatusBadRequest, "invalid form submission")
	}
	if err := form.Validate(); err != nil {
		return h.Apology(c, err)
	}

	user, err := h.accounts.Register(c.Request().Context(), form.Username, form.Password, form.Confirmation)
	if err != nil {
		return h.Apology(c, err)
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return h.Apology(c, err)
	}
	c.SetCookie(middleware.SessionCookie(token))

	return redirectFlash(c, "/", "Registered!")
}

// HandleQuote renders the quote form
// GET /quote
func (h *WebHandler) HandleQuote(c echo.Context) error {
	return h.render(c, http.StatusOK, "quote", h.pageData(c, "Quote"))
}

// HandleQuotePost looks up a symbol and renders its current price
// POST /quote
func (h *WebHandler) HandleQuotePost(c echo.Context) error {
	var form dto.QuoteForm
	if err := c.Bind(&form); err != nil {
		return h.apology(c, http.StatusBadRequest, "invalid form submission")
	}
	if err := form.Validate(); err != nil {
		return h.Apology(c, err)
	}

	quote, err := h.broker.Quote(c.Request().Context(), form.Symbol)
	if err != nil {
		return h.Apology(c, err)
	}

	data := h.pageData(c, "Quote")
	data["Quote"] = quote
	return h.render(c, http.StatusOK, "quoted", data)
}

// HandleBuy renders the buy form
// GET /buy
func (h *WebHandler) HandleBuy(c echo.Context) error {
	return h.render(c, http.StatusOK, "buy", h.pageData(c, "Buy"))
}

// HandleBuyPost executes a purchase
// POST /buy
func (h *WebHandler) HandleBuyPost(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	var form dto.TradeForm
	if err := c.Bind(&form); err != nil {
		return h.apology(c, http.StatusBadRequest, "invalid form submission")
	}
	shares, err := form.Validate()
	if err != nil {
		return h.Apology(c, err)
	}

	if err := h.broker.Buy(c.Request().Context(), userID, form.Symbol, shares); err != nil {
		return h.Apology(c, err)
	}

	return redirectFlash(c, "/", "Bought!")
}

// HandleSell renders the sell form with the user's current holdings
// GET /sell
func (h *WebHandler) HandleSell(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	holdings, err := h.broker.Holdings(c.Request().Context(), userID)
	if err != nil {
		return h.Apology(c, err)
	}

	data := h.pageData(c, "Sell")
	data["Holdings"] = holdings
	return h.render(c, http.StatusOK, "sell", data)
}

// HandleSellPost executes a sale
// POST /sell
func (h *WebHandler) HandleSellPost(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	var form dto.TradeForm
	if err := c.Bind(&form); err != nil {
		return h.apology(c, http.StatusBadRequest, "invalid form submission")
	}
	shares, err := form.Validate()
	if err != nil {
		return h.Apology(c, err)
	}

	if err := h.broker.Sell(c.Request().Context(), userID, form.Symbol, shares); err != nil {
		return h.Apology(c, err)
	}

	return redirectFlash(c, "/", "Sold!")
}

// HandleHistory renders the full transaction log, oldest first
// GET /history
func (h *WebHandler) HandleHistory(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	transactions, err := h.broker.History(c.Request().Context(), userID)
	if err != nil {
		return h.Apology(c, err)
	}

	data := h.pageData(c, "History")
	data["Transactions"] = transactions
	return h.render(c, http.StatusOK, "history", data)
}
