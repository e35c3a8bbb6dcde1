package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List billing accounts",
	RunE:  runAccounts,
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscribable plans",
	RunE:  runPlans,
}

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "List subscriptions",
	RunE:  runSubscriptions,
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List invoices, newest first",
	RunE:  runInvoices,
}

var (
	cancelUUID     string
	reactivateUUID string
)

func init() {
	subscriptionsCmd.Flags().StringVar(&cancelUUID, "cancel", "", "cancel the subscription with this uuid")
	subscriptionsCmd.Flags().StringVar(&reactivateUUID, "reactivate", "", "reactivate the subscription with this uuid")
}

// forEachPage walks a paginated listing from the first page to the last.
func forEachPage[T any](ctx context.Context, page *pagination.Page[T], err error, visit func(T)) error {
	if err != nil {
		return err
	}
	for {
		for _, item := range page.Items {
			visit(item)
		}
		if !page.HasNext() {
			return nil
		}
		page, err = page.Next(ctx)
		if err != nil {
			return err
		}
	}
}

func runAccounts(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := billingClient.GetAccounts(ctx)
	if err == nil {
		fmt.Printf("%d accounts:\n", page.Records)
	}
	return forEachPage(ctx, page, err, func(account model.Account) {
		fmt.Printf("• %s  %s  [%s]\n", account.AccountCode, account.Email, account.State)
	})
}

func runPlans(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := billingClient.GetPlans(ctx)
	if err == nil {
		fmt.Printf("%d plans:\n", page.Records)
	}
	return forEachPage(ctx, page, err, func(plan model.Plan) {
		price := 0
		if plan.UnitAmountInCents != nil {
			price = plan.UnitAmountInCents.ForCurrency("USD")
		}
		fmt.Printf("• %s  %q  every %d %s  USD %d.%02d\n",
			plan.PlanCode, plan.Name, plan.PlanIntervalLength, plan.PlanIntervalUnit,
			price/100, price%100)
	})
}

func runSubscriptions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if cancelUUID != "" {
		sub, err := billingClient.CancelSubscription(ctx, cancelUUID)
		if err != nil {
			return err
		}
		fmt.Printf("canceled %s (state %s)\n", sub.UUID, sub.State)
		return nil
	}

	if reactivateUUID != "" {
		sub, err := billingClient.ReactivateSubscription(ctx, reactivateUUID)
		if err != nil {
			return err
		}
		fmt.Printf("reactivated %s (state %s)\n", sub.UUID, sub.State)
		return nil
	}

	page, err := billingClient.GetSubscriptions(ctx)
	if err == nil {
		fmt.Printf("%d subscriptions:\n", page.Records)
	}
	return forEachPage(ctx, page, err, func(sub model.Subscription) {
		account := ""
		if sub.Account != nil {
			account = sub.Account.AccountCode
		}
		fmt.Printf("• %s  plan=%s  account=%s  [%s]\n", sub.UUID, sub.PlanCode, account, sub.State)
	})
}

func runInvoices(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := billingClient.GetInvoices(ctx)
	if err == nil {
		fmt.Printf("%d invoices:\n", page.Records)
	}
	return forEachPage(ctx, page, err, func(invoice model.Invoice) {
		account := ""
		if invoice.Account != nil {
			account = invoice.Account.AccountCode
		}
		fmt.Printf("• #%d  account=%s  %s %d.%02d  [%s]\n",
			invoice.InvoiceNumber, account, invoice.Currency,
			invoice.TotalInCents/100, invoice.TotalInCents%100, invoice.State)
	})
}
