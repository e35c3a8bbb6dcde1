// Package pagination implements the cursor over linked list-result pages.
//
// List endpoints return one page of records plus Link headers with
// rel="prev"/rel="next" navigation URLs and an X-Records header carrying the
// total record count. Page wraps one such response; Next and Prev lazily
// fetch the adjacent pages through the client.
//
// Example usage:
//
//	accounts, err := billingClient.GetAccounts(ctx)
//	for {
//		for _, a := range accounts.Items {
//			fmt.Println(a.AccountCode)
//		}
//		accounts, err = accounts.Next(ctx)
//		if errors.Is(err, pagination.ErrNoPage) {
//			break
//		}
//	}
//
// The cursor is strictly sequential: the navigation URLs are opaque server
// cursors, so pages cannot be fetched out of order or in parallel.
package pagination
