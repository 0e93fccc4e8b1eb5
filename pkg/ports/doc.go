/*
Package ports defines the boundaries of the fluent chain.

# Key Interfaces

  - Driver, Element, SearchContext: the driven port a document backend
    implements (htmldoc, the HTTP client, journal decorators, test stubs).
  - Chain: the driving port callers build expressions against. It has two
    implementations, the immediate runtime chain and the recording placeholder.

RunDriverContract is a reusable suite every backend adapter runs in its tests.
*/
package ports
