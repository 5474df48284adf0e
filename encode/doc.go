// Package encode renders an ir.Document back to KDL text.
package encode
