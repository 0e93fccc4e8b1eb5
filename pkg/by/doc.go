/*
Package by is the locator algebra of the fluent chain.

Plain constructors (TagName, ID, Name, ClassName, CSS, XPath, LinkText,
PartialLinkText) wrap one backend search strategy. The algebra constructors
(Attribute, AttributeValue, Composite, Last, LastAny) resolve to a single
relative XPath expression at construction time, so a locator is validated
before any backend is contacted and is never mutated afterwards:

	sel := by.Must(by.Composite(by.TagName("div"), by.ClassName("item")))
	// sel.String() == "By.xpath: .//div[contains(concat(' ', normalize-space(@class), ' '), ' item ')]"

Refine folds a tag constraint into whatever locator a tag-specific chain step
receives; it is the only place path expressions are concatenated.
*/
package by
