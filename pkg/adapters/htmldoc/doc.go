// Package htmldoc is an in-memory document backend built on golang.org/x/net/html.
//
// XPath locators are evaluated with htmlquery and CSS selectors with
// cascadia through goquery. There is no layout or script engine: geometry comes
// from data-x, data-y, data-width and data-height attributes, and element
// operations apply the form-control side effects a browser would.
package htmldoc
