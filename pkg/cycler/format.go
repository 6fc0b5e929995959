package cycler

import (
	"fmt"
	"math/big"
	"time"

	"github.com/fatih/color"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// BlockTimeLayout renders block timestamps, e.g. "3:04 PM · Jan 2, 2006"
const BlockTimeLayout = "3:04 PM · Jan 2, 2006"

const (
	amountDecimals = 8
	feeDecimals    = 10
	unavailable    = "unavailable"
	unknownTime    = "unknown time"
)

// Formatter renders transaction and report lines
type Formatter struct {
	Location    *time.Location
	ExplorerURL string
	Coloring    bool
}

// BlockTime formats a block timestamp in the display time zone
func (f *Formatter) BlockTime(t time.Time) string {
	if t.IsZero() {
		return unknownTime
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(BlockTimeLayout)
}

func (f *Formatter) paint(s string, attrs ...color.Attribute) string {
	if !f.Coloring {
		return s
	}
	return color.New(attrs...).Sprint(s)
}

// fixed renders a wei amount as ether with the given number of decimals, or unavailable for nil
func fixed(wei *big.Int, places int32) string {
	if wei == nil {
		return unavailable
	}
	return chains.WeiToEther(wei).StringFixed(places)
}

// TransactionLines renders the block logged after a confirmed transaction.
// A nil tokenBalance means the refresh query failed.
func (f *Formatter) TransactionLines(kind models.ActionKind, index int, amount *big.Int, outcome *models.TransactionOutcome, tokenBalance *big.Int) []string {
	hash := outcome.Hash.Hex()

	lines := []string{
		fmt.Sprintf("%d. %s ETH %s success @ %s with Block # %s",
			index+1,
			f.paint(chains.WeiToEther(amount).String(), color.FgHiRed),
			kind,
			f.paint(f.BlockTime(outcome.BlockTime), color.FgHiYellow),
			f.paint(fmt.Sprintf("%d", outcome.BlockNumber), color.FgGreen)),
		fmt.Sprintf("   Transaction hash: %s", f.paint(hash, color.FgHiCyan)),
	}
	if link := chains.TxURL(f.ExplorerURL, hash); link != "" {
		lines = append(lines, fmt.Sprintf("   Transaction details -> %s", f.paint(link, color.Bold, color.FgHiBlue)))
	}
	lines = append(lines, fmt.Sprintf("Total WETH balance (%s): %s WETH",
		kind.Title(), f.paint(fixed(tokenBalance, amountDecimals), color.FgHiMagenta)))

	return lines
}

// ReportLines renders a finalizer summary
func (f *Formatter) ReportLines(r Report) []string {
	return []string{
		f.paint(fmt.Sprintf("All %s transactions completed.", r.Kind), color.FgHiBlue),
		fmt.Sprintf("Overall ETH %s: %s ETH", r.Kind, f.paint(r.AmountMoved.StringFixed(amountDecimals), color.FgHiRed)),
		fmt.Sprintf("Overall txn fee spent (%s): %s ETH", r.Kind.Title(), f.paint(r.GasSpent.StringFixed(feeDecimals), color.FgHiYellow)),
		fmt.Sprintf("Overall WETH balance (%s): %s WETH", r.Kind.Title(), f.paint(fixed(r.TokenBalance, amountDecimals), color.FgHiMagenta)),
		fmt.Sprintf("Overall ETH balance: %s ETH", f.paint(fixed(r.NativeBalance, amountDecimals), color.FgHiGreen)),
	}
}
