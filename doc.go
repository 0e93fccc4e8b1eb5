/*
Package fluent builds readable, self-diagnosing element-locator chains on top of an imperative document driver.

A chain is a single expression of "locate, then act" steps:

	err := fluent.New(driver).
		Find(tags.Div, by.ID("signup")).
		Find(tags.Input, by.Name("email")).
		SendKeys("me@example.com").
		Err()

Every step runs inside an execution envelope that adds what the raw driver lacks:

  - Position-aware errors: a failure names the exact step, e.g.
    "NoSuchElement during invocation of: we1.input(By.name: email)".
  - Sanity checks: tag-constrained steps assert the tag name of what they found.
  - Stale element retry: transient failures are retried with exponential back-off.

# Error handling

Chains carry a sticky error. Once a step fails, later steps are skipped and Err returns a
*domain.ExecutionStopped. Accessors (Text, Attribute, IsSelected, ...) return (value, error).

# Record and playback

A Recorder captures the same chain without a driver. The sealed recording can be played back
later against any driver, producing the same backend calls and the same errors as running the
chain directly:

	rec := fluent.NewRecorder()
	rec.Chain().Find(tags.Span).Click()

	err := fluent.Replay(rec.Recording(), driver)

# Backends

Any ports.Driver works. The module ships an in-memory HTML backend (pkg/adapters/htmldoc), a
remote driver over HTTP (pkg/adapters/http) and a journaling decorator (pkg/adapters/journal).
*/
package fluent
