// Command terminal is the operator-facing checkout loop. It drives the
// pos.Engine against a local JSON file and pushes every change to the
// shop server when an endpoint is configured.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/pos"
	filestore "gameshop/backend/internal/store/file"
	"gameshop/backend/internal/syncer"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	dataFile := flag.String("data", envOr("DATA_FILE", "gameshop.json"), "path of the store document")
	endpoint := flag.String("endpoint", os.Getenv("SYNC_ENDPOINT"), "sync server URL, e.g. http://localhost:8080/sync")
	seller := flag.String("seller", envOr("SELLER", "operator"), "seller name stamped on sales")
	clampStock := flag.Bool("clamp-stock", false, "reject checkouts that would drive stock negative")
	flag.Parse()

	var pusher pos.Pusher = pos.NoopPusher{}
	var client *syncer.Client
	if *endpoint != "" {
		client = syncer.New(*endpoint, 5*time.Second)
		pusher = client
	}

	ctx := context.Background()
	engine, err := pos.New(ctx, filestore.New(*dataFile), pusher, pos.Options{ClampStock: *clampStock})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	fmt.Printf("game shop terminal, seller %s. Type help.\n", *seller)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "items":
			for _, item := range engine.Catalog() {
				fmt.Printf("  %-6s %-30s %8s  stock %d\n", item.ID, item.Name, euros(item.PriceCents), item.Stock)
			}
		case "balance":
			fmt.Printf("drawer: %s\n", euros(engine.BalanceCents()))
		case "cart":
			for _, line := range engine.Cart() {
				fmt.Printf("  %-6s x%-3d %s\n", line.ItemID, line.Qty, euros(line.SubtotalCents))
			}
			fmt.Printf("total: %s\n", euros(engine.CartTotalCents()))
		case "add":
			if len(args) < 1 {
				fmt.Println("usage: add <item-id> [qty]")
				continue
			}
			qty := optionalQty(args, 1)
			if err := engine.AddItem(args[0], qty); err != nil {
				fmt.Println(err)
			}
		case "remove":
			if len(args) < 1 {
				fmt.Println("usage: remove <item-id> [qty]")
				continue
			}
			engine.RemoveItem(args[0], optionalQty(args, 1))
		case "checkout":
			if len(args) < 1 {
				fmt.Println("usage: checkout <cash|card> [voucher]")
				continue
			}
			voucher := len(args) > 1 && args[1] == "voucher"
			sale, err := engine.Checkout(ctx, *seller, args[0], voucher)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("sale %s, total %s (discount %s), drawer %s\n",
				sale.ID, euros(sale.TotalCents), euros(sale.DiscountCents), euros(engine.BalanceCents()))
		case "withdraw":
			if len(args) < 1 {
				fmt.Println("usage: withdraw <amount>")
				continue
			}
			cents, err := parseEuros(args[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			wd, err := engine.Withdraw(ctx, *seller, cents)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("withdrew %s, drawer %s\n", euros(wd.AmountCents), euros(wd.BalanceAfterCents))
		case "return":
			if len(args) < 3 {
				fmt.Println("usage: return <sale-id> <refund> <item-id:qty> ...")
				continue
			}
			refund, err := parseEuros(args[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			lines, err := parseReturnLines(args[2:])
			if err != nil {
				fmt.Println(err)
				continue
			}
			ret, err := engine.RecordReturn(ctx, args[0], *seller, "", refund, lines)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("return %s, refunded %s, drawer %s\n", ret.ID, euros(ret.RefundCents), euros(engine.BalanceCents()))
		case "close-batch":
			if err := engine.CloseBatch(ctx); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("batch closed: counters reset, withdrawal log cleared")
		case "sync":
			if client == nil {
				fmt.Println("no sync endpoint configured")
				continue
			}
			pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := client.PushNow(pushCtx, engine.Snapshot())
			cancel()
			if err != nil {
				fmt.Printf("sync failed: %v\n", err)
				continue
			}
			fmt.Println("synced")
		default:
			fmt.Printf("unknown command %q, try help\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Print(`commands:
  items                                 list catalog
  cart                                  show cart and total
  add <item-id> [qty]                   add to cart
  remove <item-id> [qty]                remove from cart
  checkout <cash|card> [voucher]        finalize the sale
  withdraw <amount>                     take cash out of the drawer
  return <sale-id> <refund> <id:qty>... record a return
  close-batch                           reset counters and withdrawal log
  sync                                  push state to the server now
  balance                               show drawer balance
  quit
`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func optionalQty(args []string, fallback int) int {
	if len(args) < 2 {
		return fallback
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty < 1 {
		return fallback
	}
	return qty
}

func parseReturnLines(args []string) ([]domain.ReturnLine, error) {
	lines := make([]domain.ReturnLine, 0, len(args))
	for _, arg := range args {
		id, qtyStr, ok := strings.Cut(arg, ":")
		qty := 1
		if ok {
			parsed, err := strconv.Atoi(qtyStr)
			if err != nil || parsed < 1 {
				return nil, fmt.Errorf("bad quantity in %q", arg)
			}
			qty = parsed
		}
		lines = append(lines, domain.ReturnLine{ItemID: id, Qty: qty})
	}
	return lines, nil
}

// parseEuros converts "12.50" or "12,50" into cents.
func parseEuros(raw string) (int64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	whole, frac, _ := strings.Cut(raw, ".")
	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", raw)
	}
	cents *= 100
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		part, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad amount %q", raw)
		}
		cents += part
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}

func euros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
