package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"rocketshoes-cart/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Operation committed or ignored
	ExitFailure      = 1 // Operation rejected (out of stock, not in cart, lookup failed)
	ExitCommandError = 2 // Bad arguments, config or storage
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// CartView is what list and the mutating commands print.
type CartView struct {
	Outcome       string     `json:"outcome,omitempty"`
	Items         []ItemView `json:"items"`
	Size          int        `json:"size"`
	Total         float64    `json:"total"`
	Notifications []string   `json:"notifications,omitempty"`
}

type ItemView struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Amount   int     `json:"amount"`
	Subtotal float64 `json:"subtotal"`
}

func newCartView(c model.Cart) CartView {
	v := CartView{Items: make([]ItemView, 0, len(c)), Size: c.Size(), Total: c.Total()}
	for _, it := range c {
		v.Items = append(v.Items, ItemView{
			ID:       it.ID,
			Title:    it.Title,
			Image:    it.Image,
			Price:    it.Price,
			Amount:   it.Amount,
			Subtotal: it.Subtotal(),
		})
	}
	return v
}

// String renders the text form of the view.
func (v CartView) String() string {
	var b strings.Builder
	if len(v.Items) == 0 {
		b.WriteString("cart is empty\n")
	}
	for _, it := range v.Items {
		fmt.Fprintf(&b, "#%-4d %-40s %3d x %s = %s\n", it.ID, it.Title, it.Amount, formatPrice(it.Price), formatPrice(it.Subtotal))
	}
	fmt.Fprintf(&b, "%d product(s), total %s", v.Size, formatPrice(v.Total))
	return b.String()
}

// formatPrice renders BRL the way the storefront does: R$ 1.234,56.
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := "R$ " + strings.Join(grouped, ".") + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// OutputFormatter handles JSON vs text output for CLI commands. Diagnostics and
// notifications go to ErrWriter so JSON on Writer stays parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes the JSON error envelope. Text mode reports rejections through the
// notification writer instead.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{
		Status: "error",
		Error:  &CLIError{Code: code, Message: message, Details: details},
	})
}
