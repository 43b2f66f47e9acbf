package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/avolkov/kioskd/internal/kiosk/models"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.state.CurrentUser(); u != nil {
		s = u.Name + " "
	}
	if p := a.state.Provider(); p != models.ProviderNone {
		s += string(p)
		if folder := a.state.ConnectedFolder(); folder != "" {
			s += ":" + folder
		}
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the kiosk admin console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}
