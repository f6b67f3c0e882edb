package cli

import (
	"context"
	"fmt"

	"github.com/docusafe/docusafe/internal/session"
)

// gate walks the session toward unlocked: onboarding, first PIN setup, or
// a lock screen with a biometric attempt before PIN entry.
func (a *App) gate(ctx context.Context) error {
	for {
		switch a.session.State() {
		case session.StateUnlocked:
			return nil

		case session.StateOnboarding:
			fmt.Fprintln(a.out, "Welcome to DocuSafe, your offline receipt vault.")
			if _, err := GetSimpleText(a.reader, "Press Enter to begin", a.out); err != nil {
				return err
			}
			if err := a.session.CompleteOnboarding(); err != nil {
				return err
			}

		case session.StatePinSetupRequired:
			if err := a.setupPin(ctx); err != nil {
				return err
			}

		case session.StateLocked:
			if err := a.unlock(ctx); err != nil {
				return err
			}
		}
	}
}

func (a *App) setupPin(ctx context.Context) error {
	pin, err := GetPin("Choose a PIN (4-6 digits)", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPin("Confirm PIN", a.out)
	if err != nil {
		return err
	}
	if pin != confirm {
		fmt.Fprintln(a.out, "PINs do not match, try again.")
		return nil
	}
	if err := a.session.SetupPin(ctx, pin); err != nil {
		fmt.Fprintf(a.out, "Could not set PIN: %v\n", err)
		return nil
	}
	fmt.Fprintln(a.out, "PIN set. Vault unlocked.")
	return nil
}

func (a *App) unlock(ctx context.Context) error {
	result, err := a.session.UnlockWithBiometrics(ctx)
	if err != nil {
		a.log.Warn(ctx, "biometric attempt failed", "error", err)
	} else if result.Success {
		return nil
	} else if result.Reason == session.ReasonAuthenticationFailed {
		// expected non-errors (no hardware, not enrolled, disabled)
		// fall through to PIN silently
		fmt.Fprintln(a.out, "Biometric authentication failed, enter your PIN.")
	}

	pin, err := GetPin("Enter PIN", a.out)
	if err != nil {
		return err
	}
	ok, err := a.session.UnlockWithPin(ctx, pin)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Wrong PIN.")
	}
	return nil
}
