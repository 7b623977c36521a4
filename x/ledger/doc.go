/*
Package ledger implements a time-locked custody of fungible assets.

An owner deposits a single amount of an asset. The ledger records the amount
that was actually received by the custody account, which can be less than
requested for assets that charge a transfer fee. The deposit is locked for
three days. After that only the owner can withdraw it, exactly once.

A deposit record is never deleted. Once withdrawn it stays in the store
marked as withdrawn, which means an owner can deposit only once.

Withdrawal marks the deposit as withdrawn before the funds are sent back.
If sending fails the deposit is forfeited: the record stays withdrawn and
the funds stay in the custody account.
*/
package ledger
